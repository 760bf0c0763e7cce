package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceRoleWithGrantedPolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("student", "/cart/:id", "PATCH"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}

	allow, err := svc.EnforceRole("student", "/api/v1/cart/42", "patch")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceRole("student", "/api/v1/cart/42", "PUT")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/vendor/orders/:id", want: "/vendor/orders/:id"},
		{in: "/vendor/orders/:id", want: "/vendor/orders/:id"},
		{in: "cart", want: "/cart"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	cases := []struct {
		role  string
		obj   string
		act   string
		allow bool
	}{
		{role: "student", obj: "/cart", act: "POST", allow: true},
		{role: "student", obj: "/cart/7", act: "DELETE", allow: true},
		{role: "student", obj: "/orders", act: "POST", allow: true},
		{role: "student", obj: "/feedback", act: "POST", allow: true},
		{role: "student", obj: "/vendor/orders", act: "GET", allow: false},
		{role: "vendor", obj: "/vendor/orders", act: "GET", allow: true},
		{role: "vendor", obj: "/vendor/orders/3", act: "PATCH", allow: true},
		{role: "vendor", obj: "/vendor/inventory/adjust", act: "POST", allow: true},
		{role: "vendor", obj: "/cart", act: "POST", allow: false},
		{role: "admin", obj: "/vendor/inventory/adjust", act: "POST", allow: true},
		{role: "admin", obj: "/cart", act: "POST", allow: true},
	}
	for _, item := range cases {
		allow, err := svc.EnforceRole(item.role, item.obj, item.act)
		if err != nil {
			t.Fatalf("enforce failed, role=%s obj=%s: %v", item.role, item.obj, err)
		}
		if allow != item.allow {
			t.Fatalf("enforce role=%s obj=%s act=%s want=%v got=%v", item.role, item.obj, item.act, item.allow, allow)
		}
	}
}

func TestAssignUserRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.AssignUserRole(9, "vendor"); err != nil {
		t.Fatalf("assign user role failed: %v", err)
	}

	allow, err := svc.EnforceUser(9, "/vendor/orders", "GET")
	if err != nil {
		t.Fatalf("enforce user failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected user to inherit vendor permission")
	}

	allow, err = svc.EnforceUser(9, "/cart", "POST")
	if err != nil {
		t.Fatalf("enforce user deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected user without student role to be denied")
	}
}

package gate_test

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/immo-gestion/gate"
)

type listing struct {
	OwnerID uint
}

func mapResolver(profiles map[uint]gate.Profile) gate.ResolverFunc[uint] {
	return func(_ context.Context, user uint) (gate.Profile, error) {
		return profiles[user], nil
	}
}

func ownerPolicy() gate.PolicyFunc[uint] {
	return func(_ context.Context, user uint, _ gate.Action, resource any) bool {
		l, ok := resource.(*listing)
		return ok && l.OwnerID == user
	}
}

func TestHybridGate_ProfileOnly(t *testing.T) {
	g := gate.NewHybridGate[uint](mapResolver(map[uint]gate.Profile{
		1: gate.NewStaticProfile("bailleur",
			gate.NewPermission("property", gate.ActionCreate),
			gate.NewPermission("property", gate.ActionView),
		),
	}))
	ctx := context.Background()

	if !g.Can(ctx, 1, gate.ActionCreate, "property", nil) {
		t.Error("user with permission should be allowed")
	}
	if g.Can(ctx, 1, gate.ActionDelete, "property", nil) {
		t.Error("user without permission should be denied")
	}
	if g.Can(ctx, 2, gate.ActionView, "property", nil) {
		t.Error("user without profile should be denied")
	}
	if g.Can(ctx, 0, gate.ActionView, "property", nil) {
		t.Error("zero user should be denied")
	}
}

func TestHybridGate_WithPolicy(t *testing.T) {
	editor := gate.NewStaticProfile("bailleur", gate.NewPermission("property", gate.ActionUpdate))
	g := gate.NewHybridGate[uint](mapResolver(map[uint]gate.Profile{1: editor, 2: editor}))
	g.Register("property", ownerPolicy())
	ctx := context.Background()

	own := &listing{OwnerID: 1}
	if err := g.Authorize(ctx, 1, gate.ActionUpdate, "property", own); err != nil {
		t.Errorf("owner denied: %v", err)
	}
	if err := g.Authorize(ctx, 2, gate.ActionUpdate, "property", own); err != gate.ErrUnauthorized {
		t.Errorf("non-owner err = %v, want ErrUnauthorized", err)
	}
	// without a record only the permission is checked
	if !g.Can(ctx, 2, gate.ActionUpdate, "property", nil) {
		t.Error("permission check without resource should pass")
	}
	if !g.CanProfile(ctx, 2, gate.ActionUpdate, "property") {
		t.Error("CanProfile should ignore ownership")
	}
}

func TestHybridGate_Profile(t *testing.T) {
	g := gate.NewHybridGate[uint](mapResolver(map[uint]gate.Profile{1: gate.NewStaticProfile("client")}))
	p, err := g.Profile(context.Background(), 1)
	if err != nil || p.Name() != "client" {
		t.Fatalf("Profile(1) = %v, %v", p, err)
	}
	if _, err := g.Profile(context.Background(), 5); err != gate.ErrNoProfile {
		t.Errorf("Profile(5) err = %v, want ErrNoProfile", err)
	}
}

func TestPermission_Matches(t *testing.T) {
	tests := []struct {
		granted, requested gate.Permission
		want               bool
	}{
		{"*:*", "appointment:confirm", true},
		{"favorite:*", "favorite:create", true},
		{"favorite:*", "property:create", false},
		{"property:view", "property:view", true},
		{"property:view", "property:update", false},
		{"bogus", "bogus:view", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.granted)+"->"+string(tt.requested), func(t *testing.T) {
			if got := tt.granted.Matches(tt.requested); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPermission_Parse(t *testing.T) {
	res, act := gate.NewPermission("appointment", gate.ActionCancel).Parse()
	if res != "appointment" || act != gate.ActionCancel {
		t.Errorf("Parse = %s, %s", res, act)
	}
	if res, act := gate.Permission("nocolon").Parse(); res != "" || act != "" {
		t.Errorf("malformed Parse = %q, %q", res, act)
	}
}

func TestStaticProfile_Permissions(t *testing.T) {
	p := gate.NewStaticProfile("agent", "property:view", "client:list", "appointment:confirm")
	got := p.Permissions()
	want := []gate.Permission{"appointment:confirm", "client:list", "property:view"}
	if len(got) != len(want) {
		t.Fatalf("Permissions = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Permissions[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCachedResolver(t *testing.T) {
	profiles := map[uint]gate.Profile{1: gate.NewStaticProfile("client")}
	calls := 0
	inner := gate.ResolverFunc[uint](func(_ context.Context, u uint) (gate.Profile, error) {
		calls++
		return profiles[u], nil
	})
	cached := gate.NewCachedResolver[uint](inner, 5*time.Minute)
	ctx := context.Background()

	p1, _ := cached.Resolve(ctx, 1)
	profiles[1] = gate.NewStaticProfile("agent")
	p2, _ := cached.Resolve(ctx, 1)
	if p1.Name() != "client" || p2.Name() != "client" || calls != 1 {
		t.Errorf("expected cached client after 1 call, got %s/%s after %d", p1.Name(), p2.Name(), calls)
	}

	cached.Invalidate(1)
	p3, _ := cached.Resolve(ctx, 1)
	if p3.Name() != "agent" || calls != 2 {
		t.Errorf("after Invalidate got %s after %d calls", p3.Name(), calls)
	}

	profiles[1] = gate.NewStaticProfile("manager")
	cached.InvalidateAll()
	if p4, _ := cached.Resolve(ctx, 1); p4.Name() != "manager" {
		t.Errorf("after InvalidateAll got %s", p4.Name())
	}
}

func TestCachedResolver_Expiry(t *testing.T) {
	profiles := map[uint]gate.Profile{1: gate.NewStaticProfile("client")}
	cached := gate.NewCachedResolver[uint](mapResolver(profiles), time.Millisecond)
	ctx := context.Background()

	_, _ = cached.Resolve(ctx, 1)
	profiles[1] = gate.NewStaticProfile("bailleur")
	time.Sleep(5 * time.Millisecond)
	if p, _ := cached.Resolve(ctx, 1); p.Name() != "bailleur" {
		t.Errorf("expired entry not refreshed, got %s", p.Name())
	}
}

package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "estate_listing/internal/adapters/redis"
	"estate_listing/internal/domain"
)

func TestCache_SetGetDelAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	var miss domain.Property
	if ok, err := c.Get(ctx, "property:1", &miss); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	in := domain.Property{ID: "1", Title: "Loft", Price: 420000, Type: domain.KindSale}
	if err := c.Set(ctx, "property:1", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("estate:property:1") {
		t.Fatalf("expected namespaced key in redis")
	}

	var out domain.Property
	ok, err := c.Get(ctx, "property:1", &out)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if out.Title != "Loft" || out.Price != 420000 || out.Type != domain.KindSale {
		t.Fatalf("unexpected value: %+v", out)
	}

	mr.FastForward(61 * time.Second)
	if ok, _ := c.Get(ctx, "property:1", &out); ok {
		t.Fatalf("expected expiry after TTL")
	}

	_ = c.Set(ctx, "property:2", in, 60)
	if err := c.Del(ctx, "property:2"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("estate:property:2") {
		t.Fatalf("key survived Del")
	}
}

package object

import (
	"math/rand"
	"testing"

	"github.com/tomz197/skyfall/internal/level"
)

func TestEnemyDamage(t *testing.T) {
	e := NewEnemy(0, level.For(2))
	if e.Damage(1) {
		t.Fatal("enemy destroyed with health left")
	}
	if !e.Damage(3) {
		t.Fatal("enemy not destroyed at negative health")
	}
	if e.DisplayHealth() != 0 {
		t.Fatalf("DisplayHealth = %d, want 0", e.DisplayHealth())
	}
}

func TestEnemyEscaped(t *testing.T) {
	e := NewEnemy(0, level.For(1))
	e.Y = 600
	if e.Escaped(600) {
		t.Fatal("enemy at the bottom edge counted as escaped")
	}
	e.Y = 601
	if !e.Escaped(600) {
		t.Fatal("enemy past the bottom edge not escaped")
	}
}

func TestBulletOffScreen(t *testing.T) {
	b := &Bullet{Y: -BulletHeight}
	if b.OffScreen() {
		t.Fatal("bullet still touching the field counted as off screen")
	}
	b.Y -= 0.5
	if !b.OffScreen() {
		t.Fatal("bullet above the field not off screen")
	}
}

func TestUpgradesCap(t *testing.T) {
	u := BaseUpgrades()
	for i := 0; i < 10; i++ {
		u.Apply(UpgradeDamage)
	}
	if u.Damage != MaxUpgradeLevel {
		t.Fatalf("Damage = %d, want %d", u.Damage, MaxUpgradeLevel)
	}
	if u.Available(UpgradeDamage) {
		t.Fatal("capped upgrade still available")
	}
	if u.Apply(UpgradeDamage) {
		t.Fatal("Apply reported a change past the cap")
	}
	if u.FireRate != 1 || u.BulletSpeed != 1 || u.MultiShot {
		t.Fatalf("other upgrades changed: %+v", u)
	}
}

func TestUpgradesMultiShotOneWay(t *testing.T) {
	u := BaseUpgrades()
	if !u.Apply(UpgradeMultiShot) || !u.MultiShot {
		t.Fatal("multi-shot not unlocked")
	}
	if u.Apply(UpgradeMultiShot) || !u.MultiShot {
		t.Fatal("second multi-shot selection was not a no-op")
	}
	if got := u.Describe(UpgradeMultiShot); got != "Unlocked" {
		t.Fatalf("Describe = %q, want Unlocked", got)
	}
}

func TestShouldRenderBlink(t *testing.T) {
	if !ShouldRenderBlink(0) {
		t.Fatal("no flash should always render")
	}
	visible := 0
	for ticks := 1; ticks <= 10; ticks++ {
		if ShouldRenderBlink(ticks) {
			visible++
		}
	}
	if visible != 5 {
		t.Fatalf("visible %d of 10 flash ticks, want 5", visible)
	}
}

func TestEffectsExpire(t *testing.T) {
	fx := NewEffects(rand.New(rand.NewSource(3)))
	fx.SpawnExplosion(100, 100, 12, 50, 0.5)
	if fx.Len() != 12 {
		t.Fatalf("Len = %d, want 12", fx.Len())
	}
	for i := 0; i < 60; i++ {
		fx.Update(1.0 / 60)
	}
	if fx.Len() != 0 {
		t.Fatalf("Len = %d after lifetime elapsed, want 0", fx.Len())
	}
}

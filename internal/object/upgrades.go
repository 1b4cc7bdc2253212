package object

import "fmt"

// MaxUpgradeLevel caps the numeric upgrades.
const MaxUpgradeLevel = 5

// UpgradeKind identifies one of the upgrades offered between levels.
type UpgradeKind int

const (
	UpgradeDamage UpgradeKind = iota
	UpgradeFireRate
	UpgradeBulletSpeed
	UpgradeMultiShot
)

// UpgradeKinds lists the upgrades in menu order.
var UpgradeKinds = []UpgradeKind{UpgradeDamage, UpgradeFireRate, UpgradeBulletSpeed, UpgradeMultiShot}

func (k UpgradeKind) String() string {
	switch k {
	case UpgradeDamage:
		return "damage"
	case UpgradeFireRate:
		return "fireRate"
	case UpgradeBulletSpeed:
		return "bulletSpeed"
	case UpgradeMultiShot:
		return "multiShot"
	default:
		return fmt.Sprintf("UpgradeKind(%d)", int(k))
	}
}

// Upgrades persist across levels within a session.
type Upgrades struct {
	Damage      int
	FireRate    int
	BulletSpeed int
	MultiShot   bool
}

// BaseUpgrades returns the upgrades a new session starts with.
func BaseUpgrades() Upgrades {
	return Upgrades{Damage: 1, FireRate: 1, BulletSpeed: 1}
}

// Apply increments one upgrade and reports whether anything changed.
// Numeric upgrades stop at MaxUpgradeLevel; multi-shot only unlocks.
func (u *Upgrades) Apply(kind UpgradeKind) bool {
	switch kind {
	case UpgradeDamage:
		return bump(&u.Damage)
	case UpgradeFireRate:
		return bump(&u.FireRate)
	case UpgradeBulletSpeed:
		return bump(&u.BulletSpeed)
	case UpgradeMultiShot:
		if u.MultiShot {
			return false
		}
		u.MultiShot = true
		return true
	}
	return false
}

// Available reports whether the upgrade can still be improved.
func (u Upgrades) Available(kind UpgradeKind) bool {
	switch kind {
	case UpgradeDamage:
		return u.Damage < MaxUpgradeLevel
	case UpgradeFireRate:
		return u.FireRate < MaxUpgradeLevel
	case UpgradeBulletSpeed:
		return u.BulletSpeed < MaxUpgradeLevel
	case UpgradeMultiShot:
		return !u.MultiShot
	}
	return false
}

// Describe returns the menu label for an upgrade's current level.
func (u Upgrades) Describe(kind UpgradeKind) string {
	switch kind {
	case UpgradeDamage:
		return fmt.Sprintf("Level %d/%d", u.Damage, MaxUpgradeLevel)
	case UpgradeFireRate:
		return fmt.Sprintf("Level %d/%d", u.FireRate, MaxUpgradeLevel)
	case UpgradeBulletSpeed:
		return fmt.Sprintf("Level %d/%d", u.BulletSpeed, MaxUpgradeLevel)
	case UpgradeMultiShot:
		if u.MultiShot {
			return "Unlocked"
		}
		return "Locked"
	}
	return ""
}

func bump(v *int) bool {
	if *v >= MaxUpgradeLevel {
		*v = MaxUpgradeLevel
		return false
	}
	*v++
	return true
}

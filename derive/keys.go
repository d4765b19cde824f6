package derive

import (
	"strings"

	"github.com/samber/lo"
)

// Reserved property keys. They are consumed by the derive functions and never end up in annotations.
var (
	InternalKeys = []string{
		"phobostype", "entity/name", "entity/type", "entity/isReferenced", "entity/isChild",
		"model/name", "model/version", "submechanism/id",
	}
	ViscolKeys = []string{
		"geometry/type", "geometry/size", "geometry/radius", "geometry/length", "geometry/scale",
		"geometry/mesh", "material", "name", "origin", "bitmask",
	}
	JointKeys = []string{
		"joint/name", "joint/type", "joint/axis",
		"joint/limits/effort", "joint/limits/velocity", "joint/limits/lower", "joint/limits/upper",
		"joint/dynamics/damping", "joint/dynamics/friction",
		"joint/dynamics/spring_stiffness", "joint/dynamics/spring_reference",
		"joint/mimic/joint", "joint/mimic/multiplier", "joint/mimic/offset", "joint/motor",
	}
	LinkKeys         = []string{"link/name"}
	MotorKeys        = []string{"joint", "name"}
	InterfaceKeys    = []string{"type", "direction", "parent", "name", "origin"}
	InertialKeys     = []string{"mass", "inertia", "origin"}
	SubmechanismKeys = []string{
		"jointnames", "jointnames_spanningtree", "jointnames_active", "jointnames_independent",
		"jointnames_dependent",
	}
)

// Property prefixes with a structural meaning.
const (
	jointPrefix = "joint/"
	linkPrefix  = "link/"
	posePrefix  = "pose/"
)

func reserved(groups ...[]string) func(key string) bool {
	all := lo.Flatten(groups)
	return func(key string) bool {
		return lo.Contains(all, key)
	}
}

func notReserved(groups ...[]string) func(key string) bool {
	isReserved := reserved(groups...)
	return func(key string) bool {
		return !isReserved(key)
	}
}

func hasAnyPrefix(key string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

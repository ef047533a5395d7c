package opcode

import (
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/opgen/errors"
)

// CheckRequires verifies that the running generator version satisfies the
// constraint declared by a definitions file. An empty constraint, or a
// development build, always passes.
func CheckRequires(constraint, version string) error {
	if constraint == "" || version == "" || version == "dev" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.MarkStagef(err, errors.ErrParse, "invalid requires constraint %q", constraint)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.MarkStagef(err, errors.ErrIncompatible, "generator version %q is not a semantic version", version)
	}

	if !c.Check(v) {
		return errors.WithHintf(
			errors.NewStagef(errors.ErrIncompatible, "definitions require opgen %s, running %s", constraint, version),
			"install an opgen release matching %s", constraint)
	}
	return nil
}

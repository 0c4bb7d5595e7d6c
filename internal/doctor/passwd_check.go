package doctor

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
)

// PasswdCheck verifies that the current uid resolves to a username.
// The process table shows owners by name; without a passwd entry every
// row falls back to "?".
type PasswdCheck struct {
	BaseCheck
	lookupForTest func(uid string) (*user.User, error) // Injectable for testing; nil uses os/user
}

// NewPasswdCheck creates the passwd resolution check.
func NewPasswdCheck() *PasswdCheck {
	return &PasswdCheck{
		BaseCheck: BaseCheck{
			CheckName:        "passwd-resolvable",
			CheckDescription: "Check that uids resolve to usernames",
			CheckCategory:    CategoryInfrastructure,
		},
	}
}

// Run resolves the current uid through the passwd database.
func (c *PasswdCheck) Run(ctx *CheckContext) *CheckResult {
	lookup := user.LookupId
	if c.lookupForTest != nil {
		lookup = c.lookupForTest
	}

	uid := os.Getuid()
	u, err := lookup(strconv.Itoa(uid))
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("uid %d has no passwd entry: %v", uid, err),
			Details: []string{"process owners show as ? when uids do not resolve"},
		}
	}
	if u.Username == "" {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("uid %d resolves to an empty username", uid),
		}
	}

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("uid %d is %s", uid, u.Username),
	}
}

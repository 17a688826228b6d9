package command

// IsOwner gates a command to the configured bot owners. Non-owners get a
// NotOwnerError rather than a generic check failure so callers can tell the
// two apart.
func IsOwner() Check {
	return func(c *Context) (bool, error) {
		for _, id := range c.Bot.OwnerIDs() {
			if c.Message.Author.ID == id {
				return true, nil
			}
		}
		return false, &NotOwnerError{}
	}
}

// CanRun evaluates the command's own checks in declaration order, stopping at
// the first failure. Group-ancestor checks are not inherited.
func (c *Command) CanRun(ctx *Context) error {
	for _, check := range c.Checks {
		ok, err := check(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return &CheckFailureError{Reason: "the check functions for command " + c.Name + " failed"}
		}
	}
	return nil
}

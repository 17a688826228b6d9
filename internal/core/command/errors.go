package command

import (
	"fmt"
	"time"
)

// CommandNotFoundError is raised when a message carried a prefix and a name
// token but no command is registered under that name.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("the command %q was not found", e.Name)
}

// CheckFailureError is raised when a check predicate returns false without
// reporting its own error.
type CheckFailureError struct {
	Reason string
}

func (e *CheckFailureError) Error() string {
	return e.Reason
}

// NotOwnerError is the specialised check failure raised by IsOwner.
type NotOwnerError struct{}

func (e *NotOwnerError) Error() string {
	return "you are not the owner of this bot"
}

func (e *NotOwnerError) Unwrap() error {
	return &CheckFailureError{Reason: e.Error()}
}

// CommandOnCooldownError is raised when a cooldown bucket has no token left.
type CommandOnCooldownError struct {
	RetryAfter time.Duration
}

func (e *CommandOnCooldownError) Error() string {
	return fmt.Sprintf("command is on cooldown, retry in %s", e.RetryAfter.Round(time.Millisecond))
}

// BadArgumentError is raised when a token cannot be converted to the declared
// parameter type.
type BadArgumentError struct {
	Argument string
	Type     string
	Err      error
}

func (e *BadArgumentError) Error() string {
	return fmt.Sprintf("%q failed to convert to type %s", e.Argument, e.Type)
}

func (e *BadArgumentError) Unwrap() error {
	return e.Err
}

// MissingRequiredArgumentError is raised when a required parameter has no
// token left to bind and no default.
type MissingRequiredArgumentError struct {
	Param string
}

func (e *MissingRequiredArgumentError) Error() string {
	return fmt.Sprintf("%s is a required argument that is missing", e.Param)
}

// ExtensionNotFoundError is returned by load/unload/reload for unknown names.
type ExtensionNotFoundError struct {
	Name string
}

func (e *ExtensionNotFoundError) Error() string {
	return fmt.Sprintf("the extension %q was not found", e.Name)
}

// ExtensionAlreadyLoadedError is returned when registering an extension under
// a name that is already taken.
type ExtensionAlreadyLoadedError struct {
	Name string
}

func (e *ExtensionAlreadyLoadedError) Error() string {
	return fmt.Sprintf("the extension %q is already registered", e.Name)
}

// ExtensionFailedError wraps an error raised by an extension's setup or
// teardown entry point.
type ExtensionFailedError struct {
	Name string
	Err  error
}

func (e *ExtensionFailedError) Error() string {
	return fmt.Sprintf("extension %q failed: %v", e.Name, e.Err)
}

func (e *ExtensionFailedError) Unwrap() error {
	return e.Err
}

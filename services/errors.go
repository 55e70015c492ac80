package services

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
)

// NotAMemberError is returned when an assignment target is not a member of
// the task's project. It names the offending identity so the caller can add
// the user to the project and retry.
type NotAMemberError struct {
	UserID string
	Email  string
}

func (e *NotAMemberError) Error() string {
	who := e.Email
	if who == "" {
		who = e.UserID
	}
	return fmt.Sprintf("user %s is not a member of this project, add them as a member first", who)
}

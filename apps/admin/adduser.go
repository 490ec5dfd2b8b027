package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core"
	"github.com/saikalpataru/sadhana/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(first, last, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	email = core.CleanString(email)

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	}
	usr.FirstName = core.CleanString(first)
	usr.LastName = core.CleanString(last)
	usr.IsAdmin = isAdmin
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == 0 {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	}
	return err
}

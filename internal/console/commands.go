package console

import (
	"context"
	"strconv"
	"strings"

	"github.com/ignacio/twitter-console/pkg/api"
	"github.com/ignacio/twitter-console/pkg/dashboard"
)

// usersCommand runs one users operation through a freshly mounted section,
// the way a dashboard view would, and closes it afterwards.
func (c *Console) usersCommand(ctx context.Context, args []string) {
	section := dashboard.NewUserSection(c.client, c.sessions.Token(), c.unauthorized, c.logger)
	defer section.Close()

	switch {
	case len(args) == 0:
		section.Refresh(ctx)
	case args[0] == "create" && len(args) >= 5:
		section.SetForm(userFormFromArgs(args[1:]))
		section.Submit(ctx)
	case args[0] == "update" && len(args) >= 6:
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			c.printf("Invalid id %q.\n", args[1])
			return
		}
		section.Refresh(ctx)
		target, ok := findUser(section.Users(), id)
		if !ok {
			c.printf("No user with id %d.\n", id)
			return
		}
		section.BeginEdit(target)
		section.SetForm(userFormFromArgs(args[2:]))
		section.Submit(ctx)
	case args[0] == "delete" && len(args) == 2:
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			c.printf("Invalid id %q.\n", args[1])
			return
		}
		section.Remove(ctx, id)
	default:
		c.printf("Unknown users command. Try help.\n")
		return
	}

	if !c.sessions.Authenticated() {
		return
	}
	if msg := section.Err(); msg != "" {
		c.printf("Error: %s\n", msg)
		return
	}
	c.printUsers(section.Users())
}

// tweetsCommand mirrors usersCommand for the tweets section.
func (c *Console) tweetsCommand(ctx context.Context, args []string) {
	section := dashboard.NewTweetSection(c.client, c.sessions.Token(), c.unauthorized, c.logger)
	defer section.Close()

	switch {
	case len(args) == 0:
		section.Refresh(ctx)
	case args[0] == "post" && len(args) >= 3:
		authorID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			c.printf("Invalid author id %q.\n", args[1])
			return
		}
		section.SetForm(dashboard.TweetForm{AuthorID: authorID, Content: strings.Join(args[2:], " ")})
		section.Submit(ctx)
	case args[0] == "update" && len(args) >= 4:
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			c.printf("Invalid id %q.\n", args[1])
			return
		}
		authorID, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			c.printf("Invalid author id %q.\n", args[2])
			return
		}
		section.Refresh(ctx)
		target, ok := findTweet(section.Tweets(), id)
		if !ok {
			c.printf("No tweet with id %d.\n", id)
			return
		}
		section.BeginEdit(target)
		section.SetForm(dashboard.TweetForm{AuthorID: authorID, Content: strings.Join(args[3:], " ")})
		section.Submit(ctx)
	case args[0] == "delete" && len(args) == 2:
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			c.printf("Invalid id %q.\n", args[1])
			return
		}
		section.Remove(ctx, id)
	default:
		c.printf("Unknown tweets command. Try help.\n")
		return
	}

	if !c.sessions.Authenticated() {
		return
	}
	if msg := section.Err(); msg != "" {
		c.printf("Error: %s\n", msg)
		return
	}
	c.printTweets(section.Tweets())
}

func userFormFromArgs(args []string) dashboard.UserForm {
	form := dashboard.UserForm{
		Email:    args[0],
		Handle:   args[1],
		Username: args[2],
		Password: args[3],
	}
	if len(args) > 4 {
		form.FirstName = args[4]
	}
	if len(args) > 5 {
		form.LastName = args[5]
	}
	return form
}

func findUser(users []api.User, id int64) (api.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return api.User{}, false
}

func findTweet(tweets []api.Tweet, id int64) (api.Tweet, bool) {
	for _, t := range tweets {
		if t.ID == id {
			return t, true
		}
	}
	return api.Tweet{}, false
}

func (c *Console) printUsers(users []api.User) {
	if len(users) == 0 {
		c.printf("No users found.\n")
		return
	}
	c.printf("%-6s %-20s %-28s %s\n", "ID", "NAME", "EMAIL", "HANDLE")
	for _, u := range users {
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		if name == "" {
			name = "-"
		}
		c.printf("%-6d %-20s %-28s %s\n", u.ID, name, u.Email, u.Handle)
	}
}

func (c *Console) printTweets(tweets []api.Tweet) {
	if len(tweets) == 0 {
		c.printf("No tweets found.\n")
		return
	}
	c.printf("%-6s %-16s %s\n", "ID", "AUTHOR", "CONTENT")
	for _, t := range tweets {
		c.printf("%-6d %-16s %s\n", t.ID, dashboard.AuthorLabel(t), t.Content)
	}
}

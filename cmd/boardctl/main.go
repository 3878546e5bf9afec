// boardctl is a small terminal client for the village board. It keeps a
// session file under the user's home directory, so login survives between
// invocations the way a browser session would.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"villageboard/client"
)

func main() {
	serverURL := flag.String("server", envOr("VILLAGEBOARD_URL", "http://localhost:5000"), "API base URL")
	sessionPath := flag.String("session", "", "session file path (default ~/.villageboard/session.json)")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	path := *sessionPath
	if path == "" {
		var err error
		path, err = client.DefaultSessionPath()
		if err != nil {
			log.Fatalf("session path: %v", err)
		}
	}

	api := client.New(*serverURL)
	session := client.NewSession(api, client.NewFileStore(path))
	if err := session.Restore(); err != nil {
		log.Printf("warning: could not restore session: %v", err)
	}

	ctx := context.Background()
	if err := run(ctx, api, session, flag.Arg(0), flag.Args()[1:]); err != nil {
		if errors.Is(err, client.ErrLoginRequired) {
			log.Fatal("not logged in; run: boardctl login <email> <password>")
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, api *client.Client, session *client.Session, command string, args []string) error {
	switch command {
	case "register":
		if len(args) < 3 {
			return errors.New("usage: boardctl register <name> <email> <password>")
		}
		member, err := api.Register(ctx, client.RegisterInput{Name: args[0], Email: args[1], Password: args[2]})
		if err != nil {
			return err
		}
		fmt.Printf("registered %s (%s)\n", member.Name, member.ID)
		return nil

	case "login":
		if len(args) < 2 {
			return errors.New("usage: boardctl login <email> <password>")
		}
		grant, err := api.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if err := session.Establish(client.Identity{
			MemberID:     grant.MemberID,
			AccessToken:  grant.AccessToken,
			RefreshToken: grant.RefreshToken,
		}); err != nil {
			return err
		}
		// Wait for the enrichment fetch so the greeting can use the name;
		// the login itself already succeeded either way.
		<-session.Done()
		if member := session.Member(); member != nil {
			fmt.Printf("logged in as %s\n", member.Name)
		} else {
			fmt.Printf("logged in as %s\n", grant.MemberID)
		}
		return nil

	case "logout":
		return session.Guard(func() error {
			if identity := session.Identity(); identity != nil && identity.RefreshToken != "" {
				if err := api.Logout(ctx, identity.RefreshToken); err != nil {
					log.Printf("warning: server logout failed: %v", err)
				}
			}
			if err := session.Clear(); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		})

	case "whoami":
		return session.Guard(func() error {
			identity := session.Identity()
			fmt.Printf("member id: %s (session %s)\n", identity.MemberID, session.State())
			if member := session.Member(); member != nil {
				fmt.Printf("name: %s\nemail: %s\n", member.Name, member.Email)
			}
			return nil
		})

	case "post":
		if len(args) < 2 {
			return errors.New("usage: boardctl post <title> <description>")
		}
		return session.Guard(func() error {
			announcement, err := api.CreateAnnouncement(ctx, client.CreateAnnouncementInput{
				Title:       args[0],
				Description: args[1],
				OwnerID:     session.Identity().MemberID,
			})
			if err != nil {
				return err
			}
			fmt.Printf("submitted %q (%s, status %s)\n", announcement.Title, announcement.ID, announcement.Status)
			return nil
		})

	case "mine":
		return session.Guard(func() error {
			announcements, err := api.ListAnnouncementsByOwner(ctx, session.Identity().MemberID)
			if err != nil {
				return err
			}
			for _, a := range announcements {
				fmt.Printf("%s  [%s]  %s\n", a.ID, a.Status, a.Title)
			}
			return nil
		})

	case "list":
		announcements, err := api.ListAnnouncements(ctx)
		if err != nil {
			return err
		}
		for _, a := range announcements {
			fmt.Printf("%s  [%s]  %s by %s\n", a.ID, a.Status, a.Title, a.OwnerName)
		}
		return nil

	case "members":
		members, err := api.ListMembers(ctx)
		if err != nil {
			return err
		}
		for _, m := range members {
			fmt.Printf("%s  %s <%s>\n", m.ID, m.Name, m.Email)
		}
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: boardctl [flags] <command>

commands:
  register <name> <email> <password>
  login <email> <password>
  logout
  whoami
  post <title> <description>
  mine
  list
  members`)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

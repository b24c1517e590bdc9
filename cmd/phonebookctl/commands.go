package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/phoneboox/phoneboox/internal/client/api"
	"github.com/phoneboox/phoneboox/internal/client/store"
	"github.com/phoneboox/phoneboox/internal/client/tui"
	"github.com/phoneboox/phoneboox/internal/phonebook/domain"
)

func printContacts(contacts []domain.Contact) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tNUMBER\tEMAIL\tTAGS\tFLAGS")
	for _, c := range contacts {
		var flags []string
		if c.Favourite {
			flags = append(flags, "favourite")
		}
		if c.Blocked {
			flags = append(flags, "blocked")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, c.Number, c.Email,
			strings.Join(c.Tags, ","), strings.Join(flags, ","))
	}
	w.Flush()
}

func printContact(c domain.Contact) {
	printContacts([]domain.Contact{c})
	if c.Notes != "" {
		fmt.Println("notes:", c.Notes)
	}
	if c.LastContacted != nil {
		fmt.Println("last contacted:", c.LastContacted.Format("2006-01-02 15:04"))
	}
}

func parseID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid contact id %q: %w", arg, err)
	}
	return id, nil
}

func newListCmd() *cobra.Command {
	var (
		search    string
		sortBy    string
		order     string
		page      int
		limit     int
		favourite bool
		blocked   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := api.ListParams{
				Page:      page,
				Limit:     limit,
				SortBy:    sortBy,
				SortOrder: order,
				Search:    search,
			}
			// Only constrain the flags the user actually passed.
			if cmd.Flags().Changed("favourite") {
				params.Favourite = &favourite
			}
			if cmd.Flags().Changed("blocked") {
				params.Blocked = &blocked
			}
			contacts, pg, err := newAPIClient().ListContacts(cmd.Context(), params)
			if err != nil {
				return err
			}
			printContacts(contacts)
			fmt.Printf("page %d/%d (%d total)\n", pg.Page, pg.Pages, pg.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "substring match on name, number, or email")
	cmd.Flags().StringVar(&sortBy, "sort", "name", "sort key: name, createdAt, lastContacted, number, email")
	cmd.Flags().StringVar(&order, "order", "asc", "sort order: asc or desc")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	cmd.Flags().BoolVar(&favourite, "favourite", false, "only favourites (or --favourite=false for non-favourites)")
	cmd.Flags().BoolVar(&blocked, "blocked", false, "only blocked (or --blocked=false for unblocked)")
	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := newAPIClient().GetContact(cmd.Context(), id)
			if err != nil {
				return err
			}
			printContact(c)
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var (
		name    string
		number  string
		country string
		email   string
		notes   string
		tags    []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			phone := number
			if !strings.HasPrefix(phone, "+") {
				phone = country + phone
			}
			c, err := newAPIClient().AddContact(cmd.Context(), api.AddContactRequest{
				Name:  name,
				Phone: phone,
				Email: email,
				Notes: notes,
				Tags:  tags,
			})
			if err != nil {
				return err
			}
			printContact(c)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "contact name")
	cmd.Flags().StringVar(&number, "number", "", "phone number (national digits, or full +-prefixed)")
	cmd.Flags().StringVar(&country, "country", "+1", "country dialing prefix used when --number has none")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("number")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var (
		name   string
		number string
		email  string
		notes  string
		tags   []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var req api.UpdateContactRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("number") {
				req.Number = &number
			}
			if cmd.Flags().Changed("email") {
				req.Email = &email
			}
			if cmd.Flags().Changed("notes") {
				req.Notes = &notes
			}
			if cmd.Flags().Changed("tag") {
				req.Tags = &tags
			}
			c, err := newAPIClient().UpdateContact(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			printContact(c)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "contact name")
	cmd.Flags().StringVar(&number, "number", "", "phone number (+-prefixed)")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replacement tag set (repeatable)")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a contact",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := newAPIClient().DeleteContact(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("deleted %s (%s)\n", c.Name, c.Number)
			return nil
		},
	}
}

// toggleCmd fetches the contact, flips one flag, and writes it back.
func toggleCmd(use, short string, flip func(c domain.Contact) api.UpdateContactRequest) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client := newAPIClient()
			c, err := client.GetContact(cmd.Context(), id)
			if err != nil {
				return err
			}
			updated, err := client.UpdateContact(cmd.Context(), id, flip(c))
			if err != nil {
				return err
			}
			printContact(updated)
			return nil
		},
	}
}

func newBlockCmd() *cobra.Command {
	return toggleCmd("block <id>", "Toggle the blocked flag", func(c domain.Contact) api.UpdateContactRequest {
		next := !c.Blocked
		return api.UpdateContactRequest{Blocked: &next}
	})
}

func newFavouriteCmd() *cobra.Command {
	return toggleCmd("favourite <id>", "Toggle the favourite flag", func(c domain.Contact) api.UpdateContactRequest {
		next := !c.Favourite
		return api.UpdateContactRequest{Favourite: &next}
	})
}

func newBrowseCmd(pageLimit int) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse contacts interactively",
		RunE: func(_ *cobra.Command, _ []string) error {
			model := tui.NewModel(newAPIClient(), store.New(), pageLimit)
			_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hotelops/hms-console/internal/api/view"
	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/core/forms"
	"github.com/hotelops/hms-console/internal/core/ports"
	"github.com/hotelops/hms-console/internal/core/service"
	"github.com/hotelops/hms-console/internal/infrastructure/apiclient"
)

// resourceDef describes how one REST collection is shown and edited.
type resourceDef[T domain.Entity] struct {
	kind   apiclient.Kind
	label  string // "Room"
	client func(a *app) ports.ResourceClient[T]
	decode func(url.Values) (T, error)
	header []string
	row    func(T) []string
	fields string
}

func newRoomsCmd(a *app) *cobra.Command {
	return newResourceCmd(a, resourceDef[domain.Room]{
		kind:  apiclient.Rooms,
		label: "Room",
		client: func(a *app) ports.ResourceClient[domain.Room] {
			return service.NewRoomService(apiclient.NewResource[domain.Room](a.authed, apiclient.Rooms), a.log)
		},
		decode: forms.Room,
		header: []string{"ID", "NUMBER", "TYPE", "PRICE"},
		row: func(r domain.Room) []string {
			return []string{strconv.FormatInt(r.ID, 10), r.Number, r.Type, view.Money(r.Price)}
		},
		fields: "number=<n> type=<t> price=<p>",
	})
}

func newGuestsCmd(a *app) *cobra.Command {
	return newResourceCmd(a, resourceDef[domain.Guest]{
		kind:  apiclient.Guests,
		label: "Guest",
		client: func(a *app) ports.ResourceClient[domain.Guest] {
			return apiclient.NewResource[domain.Guest](a.authed, apiclient.Guests)
		},
		decode: forms.Guest,
		header: []string{"ID", "NAME", "ROOM", "CHECK-IN", "CHECK-OUT"},
		row: func(g domain.Guest) []string {
			return []string{strconv.FormatInt(g.ID, 10), g.Name, g.RoomNumber, g.CheckInDate, g.CheckOutDate}
		},
		fields: "name=<n> roomNumber=<r> checkInDate=YYYY-MM-DD checkOutDate=YYYY-MM-DD",
	})
}

func newUsersCmd(a *app) *cobra.Command {
	def := resourceDef[domain.User]{
		kind:  apiclient.Users,
		label: "User",
		client: func(a *app) ports.ResourceClient[domain.User] {
			return apiclient.NewResource[domain.User](a.authed, apiclient.Users)
		},
		decode: forms.User,
		header: []string{"ID", "USERNAME", "ROLE"},
		row: func(u domain.User) []string {
			return []string{strconv.FormatInt(u.ID, 10), u.Username, u.Role}
		},
		fields: "username=<u> role=admin|user password=<p>",
	}
	cmd := newResourceCmd(a, def)
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle-role <id>",
		Short: "Flip a user between admin and user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col := def.collection(a)
			user, err := def.find(cmd.Context(), col, args[0])
			if err != nil {
				return err
			}
			user.Role = user.ToggledRole()
			user.Password = ""
			if err := col.Update(cmd.Context(), user); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Username, user.Role)
			return nil
		},
	})
	return cmd
}

func newResourceCmd[T domain.Entity](a *app, def resourceDef[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   def.kind.Path,
		Short: fmt.Sprintf("List, add, update and delete %s", def.kind.Path),
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", def.kind.Path),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := def.collection(a).Refresh(cmd.Context())
			if err != nil {
				return explain(err)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			return def.table(cmd.OutOrStdout(), items)
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	add := &cobra.Command{
		Use:   "add " + def.fields,
		Short: fmt.Sprintf("Add a %s", def.kind.Singular),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := forms.ParsePairs(args)
			if err != nil {
				return explain(err)
			}
			draft, err := def.decode(values)
			if err != nil {
				return explain(err)
			}
			created, err := def.collection(a).Create(cmd.Context(), draft)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s added successfully (id %d)\n", def.label, created.EntityID())
			return nil
		},
	}

	update := &cobra.Command{
		Use:   "update <id> key=value...",
		Short: fmt.Sprintf("Change fields of a %s; unspecified fields keep their value", def.kind.Singular),
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := forms.ParsePairs(args[1:])
			if err != nil {
				return explain(err)
			}
			col := def.collection(a)
			current, err := def.find(cmd.Context(), col, args[0])
			if err != nil {
				return err
			}
			patch.Del("id")
			entity, err := def.decode(forms.Overlay(forms.Values(current), patch))
			if err != nil {
				return explain(err)
			}
			if err := col.Update(cmd.Context(), entity); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated successfully\n", def.label)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", def.kind.Singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := def.collection(a).Remove(cmd.Context(), id); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s deleted successfully\n", def.label)
			return nil
		},
	}

	cmd.AddCommand(list, add, update, remove)
	return cmd
}

func (s resourceDef[T]) collection(a *app) *service.Collection[T] {
	return service.NewCollection[T](s.kind.Path, s.client(a), a.log)
}

// find loads the collection and returns the entity with the given id.
func (s resourceDef[T]) find(ctx context.Context, col *service.Collection[T], arg string) (T, error) {
	var zero T
	id, err := parseID(arg)
	if err != nil {
		return zero, err
	}
	if _, err := col.Refresh(ctx); err != nil {
		return zero, explain(err)
	}
	e, ok := col.Find(id)
	if !ok {
		return zero, fmt.Errorf("%s %d not found", s.kind.Singular, id)
	}
	return e, nil
}

func (s resourceDef[T]) table(w io.Writer, items []T) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(s.header, "\t"))
	for _, it := range items {
		fmt.Fprintln(tw, strings.Join(s.row(it), "\t"))
	}
	return tw.Flush()
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

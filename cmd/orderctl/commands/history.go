package commands

import (
	"fmt"
	"text/tabwriter"

	"cardorders/internal/core/application/usecases/queries"
	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"

	"github.com/spf13/cobra"
)

// history <order-id>: print the ledger and the replay verdict.
func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <order-id>",
		Short: "Show the event ledger of an order and check it replays to the stored state",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			orderID, err := kernel.ParseID(kernel.OrderPrefix, args[0])
			if err != nil {
				return err
			}
			query, err := queries.NewGetOrderHistoryQuery(orderID)
			if err != nil {
				return err
			}

			history, err := appCtx.CreateGetOrderHistoryQueryHandler().Handle(c.Context(), query)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "EVENT\tSTATE\tTRIGGER\tCREATED\tPUBLISHED")
			for _, e := range history.Events {
				published := "-"
				if e.PublishedAt != nil {
					published = e.PublishedAt.Format("2006-01-02T15:04:05Z07:00")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.State, e.Trigger, e.CreatedAt.Format("2006-01-02T15:04:05.000000Z07:00"), published)
			}
			if err = w.Flush(); err != nil {
				return err
			}

			if history.PolicyError != "" {
				fmt.Fprintf(c.OutOrStdout(), "policy: %s\n", history.PolicyError)
			}
			if history.Consistent {
				fmt.Fprintf(c.OutOrStdout(), "replay: ok (%s)\n", history.State)
				return nil
			}
			if !history.Snapshot {
				fmt.Fprintln(c.OutOrStdout(), "note: order and ledger were read separately; rerun to rule out a concurrent write")
			}
			fmt.Fprintf(c.OutOrStdout(), "replay: MISMATCH stored=%s replayed=%s %s\n",
				history.State, history.ReplayedState, history.ReplayError)
			return fmt.Errorf("ledger of %s does not replay to %s", orderID, history.State)
		},
	}
}

// show <order-id>: print the current order.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show the current view of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			orderID, err := kernel.ParseID(kernel.OrderPrefix, args[0])
			if err != nil {
				return err
			}
			query, err := queries.NewGetOrderQuery(orderID)
			if err != nil {
				return err
			}

			view, err := appCtx.CreateGetOrderQueryHandler().Handle(c.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), view)
		},
	}
}

var (
	openState string
	openLimit int
)

// open: list orders that have not reached a terminal state.
func openCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "open",
		Short: "List open orders, oldest update first (Postgres only)",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			handler, ok := appCtx.CreateGetOpenOrdersQueryHandler()
			if !ok {
				return fmt.Errorf("listing open orders is not supported by the configured store")
			}

			state := order.Unknown
			if openState != "" {
				parsed, err := order.ParseState(openState)
				if err != nil {
					return err
				}
				state = parsed
			}

			query, err := queries.NewGetOpenOrdersQuery(state, openLimit)
			if err != nil {
				return err
			}
			rows, err := handler.Handle(c.Context(), query)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ORDER\tUSER\tSTATE\tQUANTITY\tTOTAL\tUPDATED")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					r.ID, r.UserID, r.State, r.Quantity, r.Total, r.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
			}
			return w.Flush()
		},
	}
	c.Flags().StringVar(&openState, "state", "", "only list orders in this state")
	c.Flags().IntVar(&openLimit, "limit", 100, "maximum number of orders (1-500)")
	return c
}

package commands

import (
	usecases "cardorders/internal/core/application/usecases/commands"
	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"

	"github.com/spf13/cobra"
)

var trigger string

// transition <order-id> <state>: move one order.
func transitionCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "transition <order-id> <state>",
		Short: "Transition a single order",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			orderID, err := kernel.ParseID(kernel.OrderPrefix, args[0])
			if err != nil {
				return err
			}
			state, trig, err := parseTarget(args[1])
			if err != nil {
				return err
			}

			command, err := usecases.NewTransitionOrderCommand(orderID, state, trig)
			if err != nil {
				return err
			}
			updated, err := appCtx.CreateTransitionOrderCommandHandler().Handle(c.Context(), command)
			if err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), orderSummary(updated))
		},
	}
	c.Flags().StringVar(&trigger, "trigger", "Internal", "trigger recorded on the event (User or Internal)")
	return c
}

// batch <state> <order-id>...: move several orders all-or-nothing.
func batchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "batch <state> <order-id>...",
		Short: "Transition several orders in one atomic batch",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			state, trig, err := parseTarget(args[0])
			if err != nil {
				return err
			}

			ids := make([]kernel.ID, 0, len(args)-1)
			for _, raw := range args[1:] {
				id, err := kernel.ParseID(kernel.OrderPrefix, raw)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			command, err := usecases.NewBatchTransitionOrdersCommand(ids, state, trig)
			if err != nil {
				return err
			}
			updated, err := appCtx.CreateBatchTransitionOrdersCommandHandler().Handle(c.Context(), command)
			if err != nil {
				return err
			}

			out := make([]summary, 0, len(updated))
			for _, o := range updated {
				out = append(out, orderSummary(o))
			}
			return printJSON(c.OutOrStdout(), out)
		},
	}
	c.Flags().StringVar(&trigger, "trigger", "Internal", "trigger recorded on the events (User or Internal)")
	return c
}

type summary struct {
	ID      string `json:"id"`
	State   string `json:"state"`
	Version int64  `json:"version"`
}

func orderSummary(o *order.Order) summary {
	return summary{ID: o.ID().String(), State: o.State().String(), Version: o.Version()}
}

func parseTarget(rawState string) (order.State, order.Trigger, error) {
	state, err := order.ParseState(rawState)
	if err != nil {
		return order.Unknown, order.NoTrigger, err
	}
	trig, err := order.ParseTrigger(trigger)
	if err != nil {
		return order.Unknown, order.NoTrigger, err
	}
	return state, trig, nil
}

package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joestump/hxweather/internal/config"
	"github.com/joestump/hxweather/internal/instructions"
	"github.com/joestump/hxweather/internal/navigation"
	"github.com/joestump/hxweather/internal/prompt"
)

// newPromptCmd prints the prompt a request would send, without calling the model.
func newPromptCmd() *cobra.Command {
	var (
		city        string
		description string
		from        string
		to          string
		extraCtx    string
		extras      []string
	)

	cmd := &cobra.Command{
		Use:   "prompt [action]",
		Short: "Print the composed prompt for a navigation action or --city",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			doc, err := instructions.Load(cfg.Instructions.Path)
			if err != nil {
				return err
			}

			var nav navigation.Context
			switch {
			case city != "" && len(args) == 0:
				nav, err = navigation.FromForm(url.Values{navigation.KeyCity: {city}})
				if err != nil {
					return err
				}
			case len(args) == 1 && city == "":
				q := url.Values{}
				for _, kv := range extras {
					k, v, ok := strings.Cut(kv, "=")
					if !ok {
						return fmt.Errorf("--set %q: want key=value", kv)
					}
					q.Add(k, v)
				}
				setIf(q, navigation.KeyDescription, description)
				setIf(q, navigation.KeyFrom, from)
				setIf(q, navigation.KeyTo, to)
				setIf(q, navigation.KeyContext, extraCtx)
				nav = navigation.FromQuery(strings.Trim(args[0], "/"), q)
			default:
				return fmt.Errorf("give either an action argument or --city")
			}

			p, err := prompt.New(doc).Compose(nav)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), p)
			return err
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "compose the initial submission prompt for this city")
	cmd.Flags().StringVar(&description, "description", "", "page description for the next hop")
	cmd.Flags().StringVar(&from, "from", "", "page the navigation starts from")
	cmd.Flags().StringVar(&to, "to", "", "page the navigation leads to")
	cmd.Flags().StringVar(&extraCtx, "context", "", "free-form navigation context")
	cmd.Flags().StringArrayVar(&extras, "set", nil, "extra key=value parameter (repeatable)")
	return cmd
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

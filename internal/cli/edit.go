package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/forPelevin/mdlv/internal/domain/filters"
	"github.com/forPelevin/mdlv/internal/domain/project"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <project>",
		Short: "Create an empty project for a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movie, _ := cmd.Flags().GetString("movie")
			jump, _ := cmd.Flags().GetInt("jump")
			force, _ := cmd.Flags().GetBool("force")

			if movie == "" {
				return errors.New("--movie is required")
			}
			if jump <= 0 {
				return fmt.Errorf("jump must be > 0")
			}
			if _, err := os.Stat(args[0]); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", args[0])
			}
			d := project.New(movie)
			d.JumpSize = jump
			return project.WriteFile(args[0], d)
		},
	}
	cmd.Flags().String("movie", "", "Movie file the project edits")
	cmd.Flags().Int("jump", project.DefaultJumpSize, "Editor navigation step in frames")
	cmd.Flags().Bool("force", false, "Overwrite an existing project")
	return cmd
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <project> <frame> <type> [x y width height]",
		Short: "Insert a filter starting at frame, replacing any filter already there",
		Long: `Insert a filter starting at frame, replacing any filter already there.
Types: none, delogo, drawbox, cut, review. delogo and drawbox need x y width height.`,
		Args: cobra.RangeArgs(3, 7),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := parseFrame(args[1])
			if err != nil {
				return err
			}
			f, err := buildFilter(args[2], args[3:])
			if err != nil {
				return err
			}
			return editProject(args[0], func(d *project.Data) error {
				d.Filters.Insert(frame, f)
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", frame, f)
				return nil
			})
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project> <frame>",
		Short: "Remove the filter starting at frame",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := parseFrame(args[1])
			if err != nil {
				return err
			}
			return editProject(args[0], func(d *project.Data) error {
				if d.Filters.Position(frame) < 0 {
					return fmt.Errorf("no filter starts at frame %d", frame)
				}
				d.Filters.Remove(frame)
				return nil
			})
		},
	}
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <project> <frame> <new-frame>",
		Short: "Move a filter to a new start frame, replacing any filter there",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseFrame(args[1])
			if err != nil {
				return err
			}
			to, err := parseFrame(args[2])
			if err != nil {
				return err
			}
			return editProject(args[0], func(d *project.Data) error {
				if _, ok := d.Filters.Get(from); !ok {
					return fmt.Errorf("no filter starts at frame %d", from)
				}
				d.Filters.ChangeStartFrame(from, to)
				return nil
			})
		},
	}
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <project> <frame> <type>",
		Short: "Change the type of the filter starting at frame",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := parseFrame(args[1])
			if err != nil {
				return err
			}
			t, err := filters.ParseType(args[2])
			if err != nil {
				return err
			}
			return editProject(args[0], func(d *project.Data) error {
				f, ok := d.Filters.Get(frame)
				if !ok {
					return fmt.Errorf("no filter starts at frame %d", frame)
				}
				f = filters.Convert(f, t)
				d.Filters.Insert(frame, f)
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", frame, f)
				return nil
			})
		},
	}
}

func editProject(path string, edit func(d *project.Data) error) error {
	d, err := project.ReadFile(path)
	if err != nil {
		return err
	}
	if err := edit(d); err != nil {
		return err
	}
	return project.WriteFile(path, d)
}

func parseFrame(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("frame must be a positive integer, got %q", s)
	}
	return n, nil
}

func buildFilter(tag string, coords []string) (filters.Filter, error) {
	t, err := filters.ParseType(tag)
	if err != nil {
		return filters.Filter{}, err
	}
	if !t.Rectangular() {
		if len(coords) != 0 {
			return filters.Filter{}, fmt.Errorf("%w: %s takes no coordinates", filters.ErrInvalidParameters, t)
		}
		return filters.New(t)
	}
	if len(coords) != 4 {
		return filters.Filter{}, fmt.Errorf("%w: %s needs x y width height", filters.ErrInvalidParameters, t)
	}
	var v [4]int
	for i, c := range coords {
		if v[i], err = strconv.Atoi(c); err != nil {
			return filters.Filter{}, fmt.Errorf("%w: %q is not an integer", filters.ErrInvalidParameters, c)
		}
	}
	return filters.NewRect(t, v[0], v[1], v[2], v[3])
}

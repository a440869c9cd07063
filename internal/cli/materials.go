package cli

import (
	"codego/internal/models"

	"github.com/spf13/cobra"
)

func (a *app) materialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "materials",
		Aliases: []string{"learn"},
		Short:   "Share and browse learning materials",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List learning materials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			renderMaterials(cmd.OutOrStdout(), a.rt.Store.LearningMaterials())
			return nil
		},
	}

	var in models.NewLearningMaterial
	var fileType string
	create := &cobra.Command{
		Use:   "create",
		Short: "Share a PDF or link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.FileType = models.FileType(fileType)
			m, err := a.rt.Store.AddLearningMaterial(cmd.Context(), in)
			if err != nil {
				return err
			}
			renderMaterials(cmd.OutOrStdout(), []models.LearningMaterial{m})
			return nil
		},
	}
	create.Flags().StringVarP(&in.Title, "title", "t", "", "material title")
	create.Flags().StringVarP(&in.Description, "description", "d", "", "short description")
	create.Flags().StringVar(&in.FileURL, "url", "", "link or PDF URL")
	create.Flags().StringVar(&fileType, "type", string(models.FileTypeLink), "pdf or link")

	del := &cobra.Command{
		Use:   "delete <material-id>",
		Short: "Delete a learning material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rt.Store.DeleteLearningMaterial(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}

package cmd

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/platoro/foodgram/internal/config"
	"github.com/platoro/foodgram/internal/model"
	"github.com/platoro/foodgram/internal/service"
	"github.com/platoro/foodgram/internal/store"
)

var ingredientCmd = &cobra.Command{
	Use:   "ingredient",
	Short: "ingredient reference data commands",
}

func init() {
	ingredientCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	ingredientCmd.AddCommand(importIngredientsCmd())
	ingredientCmd.AddCommand(listIngredientsCmd())
}

type ingredientFile struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func importIngredientsCmd() *cobra.Command {
	var file string

	command := &cobra.Command{
		Use:     "import",
		Short:   "bulk-load ingredients from a json file",
		Example: "foodgram ingredient import -f ingredients.json",
		Run: func(cmd *cobra.Command, args []string) {
			if file == "" {
				color.Red("missing: --file")
				return
			}

			data, err := os.ReadFile(file)
			if err != nil {
				logrus.Error(err)
				return
			}

			var entries []ingredientFile
			if err := json.Unmarshal(data, &entries); err != nil {
				logrus.Error(err)
				return
			}

			ingredients := make([]*model.Ingredient, 0, len(entries))
			for _, entry := range entries {
				ingredients = append(ingredients, &model.Ingredient{
					Name:            entry.Name,
					MeasurementUnit: entry.MeasurementUnit,
				})
			}

			db := config.GetDb(loadConfig())
			ingredientService := service.NewIngredientService(store.NewGormStore(db))

			count, err := ingredientService.ImportIngredients(context.Background(), ingredients)
			if err != nil {
				logrus.Error(err)
				return
			}

			color.Green("imported %d ingredients (%d skipped as duplicates)", count, len(entries)-count)
		},
	}

	command.Flags().StringVarP(&file, "file", "f", "", "json file with [{name, measurement_unit}] entries")

	return command
}

func listIngredientsCmd() *cobra.Command {
	var name string

	command := &cobra.Command{
		Use:     "list",
		Short:   "list ingredients",
		Example: "foodgram ingredient list -n flour",
		Run: func(cmd *cobra.Command, args []string) {
			db := config.GetDb(loadConfig())
			ingredientService := service.NewIngredientService(store.NewGormStore(db))

			ingredients, err := ingredientService.ListIngredients(context.Background(), name)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "ID", "Name", "Unit"})
			for i, ingredient := range ingredients {
				table.Append([]string{strconv.Itoa(i + 1), ingredient.ID, ingredient.Name, ingredient.MeasurementUnit})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&name, "name", "n", "", "filter by name substring")

	return command
}

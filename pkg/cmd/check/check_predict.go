package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orbitarch/orbitarch-service-go/log"
	"github.com/orbitarch/orbitarch-service-go/pkg/config"
	"github.com/orbitarch/orbitarch-service-go/pkg/debris"
	"github.com/orbitarch/orbitarch-service-go/pkg/predict"
)

var request predict.Request

func NewCheckPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "runs a single prediction against the debris table and prints the response",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.SetupLogger(); err != nil {
				return err
			}
			table, err := debris.Load(cmd.Context(), config.DebrisSource)
			if err != nil {
				log.Error("debris table could not be loaded", log.ErrorField(err))
				return err
			}
			resp, err := predict.NewServiceFromConfig(config.Pipeline(), table).
				Predict(cmd.Context(), request)
			if err != nil {
				return err
			}
			out, err := render(resp, selectExpr)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Float64Var(&request.SemiMajorAxis, "semi-major-axis", 7000, "semi-major axis (km)")
	cmd.Flags().Float64Var(&request.Eccentricity, "eccentricity", 0.001, "eccentricity")
	cmd.Flags().Float64Var(&request.Inclination, "inclination", 45, "inclination (degrees)")
	return cmd
}

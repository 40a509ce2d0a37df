package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/turtacn/AgriMat-Platform/internal/domain/user"
	"github.com/turtacn/AgriMat-Platform/internal/intelligence/estimator"
	"github.com/turtacn/AgriMat-Platform/internal/platform"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

type predictOptions struct {
	material    string
	environment string
	temperature string
	load        string
	username    string
}

// NewPredictCmd creates the predict command.
func NewPredictCmd() *cobra.Command {
	opts := &predictOptions{}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate lifespan and efficiency of a material under working conditions",
		Long: "predict asks the configured AI backend for a performance estimate. When the\n" +
			"backend is disabled or fails, a fixed fallback estimate is printed instead.\n\n" +
			"Material types: " + strings.Join(estimator.MaterialTypes, ", ") + "\n" +
			"Environments:   " + strings.Join(estimator.Environments, ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.material, "material", estimator.MaterialTypes[0], "material type")
	f.StringVar(&opts.environment, "environment", estimator.Environments[0], "operating environment")
	f.StringVar(&opts.temperature, "temperature", "25", "operating temperature in °C")
	f.StringVar(&opts.load, "load", "500", "load in kg")
	f.StringVar(&opts.username, "user", "cli", "user name recorded on the session")
	return cmd
}

func (o *predictOptions) request() (estimator.Request, error) {
	temp, err := cast.ToFloat64E(strings.TrimSpace(o.temperature))
	if err != nil {
		return estimator.Request{}, errors.InvalidParam("invalid temperature").WithDetail(o.temperature)
	}
	load, err := cast.ToFloat64E(strings.TrimSpace(o.load))
	if err != nil {
		return estimator.Request{}, errors.InvalidParam("invalid load").WithDetail(o.load)
	}
	return estimator.Request{
		MaterialType: o.material,
		Environment:  o.environment,
		Temperature:  temp,
		Load:         load,
	}, nil
}

func runPredict(cmd *cobra.Command, opts *predictOptions) error {
	req, err := opts.request()
	if err != nil {
		return err
	}
	return withPlatform(cmd, func(ctx context.Context, cliCtx *CLIContext, p *platform.Platform) error {
		sess := p.Sessions.Create()
		defer p.Sessions.Delete(sess.ID)
		if _, err := p.Sessions.Login(sess.ID, opts.username, user.LoginPassword); err != nil {
			return err
		}

		res, err := p.Predictions.Predict(ctx, sess.ID, req)
		if err != nil {
			return err
		}
		return emit(cmd, cliCtx, res, func(w io.Writer) error {
			printKeyValues(w, [][2]string{
				{"材料", req.MaterialType},
				{"环境", req.Environment},
				{"温度", fmt.Sprintf("%g °C", req.Temperature)},
				{"载荷", fmt.Sprintf("%g kg", req.Load)},
			})
			sectionHeading(w, "预测结果")
			printKeyValues(w, [][2]string{
				{"预计寿命", fmt.Sprintf("%g 小时", res.Lifespan)},
				{"效率", colorScore(int(res.Efficiency + 0.5))},
				{"风险分析", res.RiskAnalysis},
				{"维护建议", res.MaintenanceAdvice},
			})
			if res.Fallback {
				fmt.Fprintln(w, color.YellowString("\nnote: prediction backend unavailable, showing the reference estimate"))
			}
			return nil
		})
	})
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/iwvelando/home-affordability/internal/affordability"
	"github.com/iwvelando/home-affordability/internal/config"
	"github.com/iwvelando/home-affordability/internal/observability"
	"github.com/iwvelando/home-affordability/internal/optimizer"
	"github.com/iwvelando/home-affordability/pkg/constants"
	"github.com/iwvelando/home-affordability/pkg/loans"
	"github.com/iwvelando/home-affordability/pkg/mathutil"
	"github.com/iwvelando/home-affordability/pkg/numeric"
	"github.com/iwvelando/home-affordability/pkg/output"
	"github.com/iwvelando/home-affordability/pkg/validation"
	"go.uber.org/zap"
)

// inputs are the form fields taken from the command line.
type inputs struct {
	price              string
	downPayment        string
	downPaymentPercent float64
	amortization       int
	newConstruction    bool
	rate               string
	schedule           bool
	budget             float64
}

// events replays the inputs in form order: price, down payment,
// amortization, new construction toggle, interest rate. A down payment
// percentage replaces the down payment text when the price is a number.
func (in inputs) events() []affordability.Event {
	downPayment := in.downPayment
	if in.downPaymentPercent > 0 {
		if price, ok := numeric.Parse(in.price); ok {
			downPayment = strconv.FormatFloat(mathutil.ApplyPercentage(price, in.downPaymentPercent), 'f', -1, 64)
		}
	}

	events := []affordability.Event{
		affordability.SetPurchasePrice{Text: in.price},
		affordability.SetDownPayment{Text: downPayment},
	}
	if in.amortization != 0 {
		events = append(events, affordability.SetAmortization{Years: in.amortization})
	}
	return append(events,
		affordability.SetNewConstruction{On: in.newConstruction},
		affordability.SetInterestRate{Text: in.rate},
	)
}

// loadConfiguration reads the calculator configuration, falling back to the
// defaults when the file does not exist.
func loadConfiguration(path string) (*config.Configuration, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config.LoadDefaults()
	}
	return config.LoadConfiguration(path)
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")

	var in inputs
	flag.StringVar(&in.price, "price", "", "purchase price")
	flag.StringVar(&in.downPayment, "down-payment", "", "down payment amount")
	flag.Float64Var(&in.downPaymentPercent, "down-payment-percent", 0, "down payment as a percentage of the price; overrides -down-payment")
	flag.IntVar(&in.amortization, "amortization", 0, "requested amortization in years (clamped to the allowed range)")
	flag.BoolVar(&in.newConstruction, "new-construction", false, "the property is new construction")
	flag.StringVar(&in.rate, "rate", "", "annual interest rate in percent")
	flag.BoolVar(&in.schedule, "schedule", false, "also print the amortization schedule")
	flag.Float64Var(&in.budget, "budget", 0, "search for the highest price this monthly payment can carry")
	flag.Parse()

	conf, err := loadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	session := affordability.NewSession(logger, conf.Calculator())
	session.Dispatch(in.events()...)
	view := session.Evaluate()

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.Pretty(os.Stdout, view)
	case constants.OutputFormatJSON:
		err = output.JSON(os.Stdout, view)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if in.budget > 0 {
		writeSearch(logger, conf, in.budget, view, outputFormat)
	}
	if !in.schedule {
		return
	}
	schedule, err := buildSchedule(logger, view)
	if err != nil {
		logger.Fatal("failed to build amortization schedule",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	switch outputFormat {
	case constants.OutputFormatPretty:
		fmt.Println()
		err = output.PrettySchedule(os.Stdout, schedule)
	case constants.OutputFormatJSON:
		err = output.JSONSchedule(os.Stdout, schedule)
	}
	if err != nil {
		logger.Fatal("failed to write amortization schedule",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// searchDirective searches with the view's down payment, interest rate,
// amortization and construction flag.
func searchDirective(budget float64, view affordability.View) (optimizer.Directive, error) {
	if !view.DownPaymentValid || !view.InterestRateValid {
		return optimizer.Directive{}, fmt.Errorf("a budget search needs a numeric down payment and interest rate")
	}
	return optimizer.Directive{
		MonthlyBudget:   budget,
		DownPayment:     numeric.MustNumber(view.State.DownPaymentText),
		InterestRate:    numeric.MustNumber(view.State.InterestRateText),
		Amortization:    view.State.Amortization,
		NewConstruction: view.State.NewConstruction,
	}, nil
}

func writeSearch(logger *zap.Logger, conf *config.Configuration, budget float64, view affordability.View, outputFormat string) {
	directive, err := searchDirective(budget, view)
	if err != nil {
		logger.Fatal("failed to start budget search",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	summary, err := optimizer.NewRunner(logger, conf.Calculator()).Run(directive)
	if err != nil {
		logger.Fatal("budget search failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	switch outputFormat {
	case constants.OutputFormatPretty:
		fmt.Println()
		err = output.PrettySearch(os.Stdout, summary)
	case constants.OutputFormatJSON:
		err = output.JSONSearch(os.Stdout, summary)
	}
	if err != nil {
		logger.Fatal("failed to write budget search",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// buildSchedule amortizes the view's principal at its interest rate over the
// selected amortization.
func buildSchedule(logger *zap.Logger, view affordability.View) ([]loans.Payment, error) {
	if view.Principal == nil || !view.InterestRateValid {
		return nil, fmt.Errorf("a schedule needs a numeric price, down payment and interest rate")
	}
	return loans.NewScheduleGenerator(logger).GenerateSchedule(loans.Loan{
		Principal:    *view.Principal,
		InterestRate: numeric.MustNumber(view.State.InterestRateText),
		Years:        view.State.Amortization,
	})
}

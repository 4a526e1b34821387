// Package pricing implements the hwprice sub-commands: read a JSON request, build and
// calibrate the lattice, price the instrument and write JSON to stdout.
package pricing

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/meenmo/hwtree/config"
	"github.com/meenmo/hwtree/lattice"
	"github.com/meenmo/hwtree/schedule"
)

// Commands.
const (
	ZCB       = "zcb"
	Bond      = "bond"
	CapFloor  = "capfloor"
	Swaption  = "swaption"
	Callable  = "callable"
	Calibrate = "calibrate"
)

// priceDecimals is the rounding of reported prices.
const priceDecimals = 8

type Output struct {
	Command   string           `json:"command"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	SpreadBP  *decimal.Decimal `json:"spread_bp,omitempty"`
	Model     *lattice.Params  `json:"model,omitempty"`
	Objective *float64         `json:"objective,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Run executes one command.
func Run(cmd string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputPath := fs.String("input", "", "JSON input path (optional; if set, ignores stdin)")
	configPath := fs.String("config", "", "YAML config path (optional)")
	help := fs.Bool("h", false, "Show help")
	fs.BoolVar(help, "help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		usage(stderr, cmd)
		return 0
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if f, ok := stdin.(*os.File); ok {
			if stat, err := f.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
				usage(stderr, cmd)
				return 2
			}
		}
	}

	cfg := config.Default()
	if p := strings.TrimSpace(*configPath); p != "" {
		loaded, err := config.LoadFile(p)
		if err != nil {
			return writeError(stdout, cmd, fmt.Sprintf("failed to load config: %v", err))
		}
		cfg = loaded
	}

	inputBytes, err := readInput(stdin, path)
	if err != nil {
		return writeError(stdout, cmd, fmt.Sprintf("failed to read input: %v", err))
	}
	var req Request
	if err := json.Unmarshal(inputBytes, &req); err != nil {
		return writeError(stdout, cmd, fmt.Sprintf("failed to parse JSON input: %v", err))
	}

	if req.Model != nil {
		cfg.Model = *req.Model
	}
	if strings.TrimSpace(req.ValuationDate) != "" {
		cfg.ValuationDate = req.ValuationDate
	}
	if err := cfg.Validate(); err != nil {
		return writeError(stdout, cmd, fmt.Sprintf("invalid config: %v", err))
	}
	lvl, _ := cfg.Level()
	log := newLogger(stderr, lvl).With(zap.String("command", cmd))
	defer func() { _ = log.Sync() }()

	out, err := execute(cmd, req, cfg, log)
	if err != nil {
		log.Warn("pricing failed", zap.Error(err))
		return writeError(stdout, cmd, err.Error())
	}
	out.Command = cmd

	outputBytes, _ := json.Marshal(out)
	fmt.Fprintln(stdout, string(outputBytes))
	return 0
}

func newLogger(w io.Writer, lvl zapcore.Level) *zap.Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
}

func usage(w io.Writer, cmd string) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  hwprice %s [-config run.yaml] < input.json\n", cmd)
	fmt.Fprintf(w, "  hwprice %s [-config run.yaml] -input /path/to/input.json\n", cmd)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read JSON input, price on a calibrated Hull-White lattice, output JSON to stdout.")
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

func writeError(stdout io.Writer, cmd, msg string) int {
	output := Output{Command: cmd, Error: msg}
	outputBytes, _ := json.Marshal(output)
	fmt.Fprintln(stdout, string(outputBytes))
	return 1
}

func execute(cmd string, req Request, cfg config.Config, log *zap.Logger) (*Output, error) {
	if cmd == Calibrate {
		return calibrate(req, cfg, log)
	}

	crv, err := req.Curve.build(cfg.Model.T)
	if err != nil {
		return nil, err
	}
	l, err := lattice.FromCurve(cfg.Model, crv,
		lattice.WithWorkers(cfg.Workers),
		lattice.WithLogger(log))
	if err != nil {
		return nil, err
	}
	valuation, _ := cfg.Valuation()
	r := resolver{grid: schedule.NewGrid(valuation, cfg.Model, cfg.DayCount)}

	inst, err := buildInstrument(cmd, req, cfg, r)
	if err != nil {
		return nil, err
	}
	price, err := inst.Price(l)
	if err != nil {
		return nil, err
	}

	notional := req.Notional
	if notional == 0 {
		notional = 1
	}
	out := &Output{Price: rounded(price * notional)}
	log.Info("priced",
		zap.Float64("price", price),
		zap.Stringer("model", cfg.Model))

	if req.MarketPrice > 0 {
		sp, ok := inst.(spreadPricer)
		if !ok || (cmd != ZCB && cmd != Bond && cmd != Callable) {
			return nil, fmt.Errorf("market_price is not supported for %s", cmd)
		}
		res, err := solveSpread(l, sp, req.MarketPrice/notional)
		if err != nil {
			return nil, err
		}
		out.SpreadBP = rounded(res.Spread * 1e4)
		log.Info("spread solved",
			zap.Float64("spread", res.Spread),
			zap.Int("iterations", res.Iterations))
	}
	return out, nil
}

func rounded(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v).Round(priceDecimals)
	return &d
}

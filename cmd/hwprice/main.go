package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meenmo/hwtree/cmd/hwprice/internal/pricing"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	cmd := strings.ToLower(strings.TrimSpace(args[0]))
	switch cmd {
	case pricing.ZCB, pricing.Bond, pricing.CapFloor, pricing.Swaption, pricing.Callable, pricing.Calibrate:
		return pricing.Run(cmd, args[1:], stdin, stdout, stderr)
	case "cap", "floor", "caplet", "floorlet":
		return pricing.Run(pricing.CapFloor, args[1:], stdin, stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: hwprice <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  zcb        Zero-coupon bond")
	fmt.Fprintln(w, "  bond       Fixed coupon bond (optional Z-spread from market_price)")
	fmt.Fprintln(w, "  capfloor   Caplet or floorlet")
	fmt.Fprintln(w, "  swaption   European or Bermudan payer/receiver swaption")
	fmt.Fprintln(w, "  callable   Callable bond (optional OAS from market_price)")
	fmt.Fprintln(w, "  calibrate  Fit a and sigma to cap prices or Black volatilities")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run `hwprice <command> -h` for command-specific help.")
}

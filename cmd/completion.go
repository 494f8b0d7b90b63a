package cmd

import (
	"github.com/etnz/coinhist/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
// Install it with COMP_INSTALL=1.
func Completion() *complete.Command {
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"new":      {},
			"update":   {},
			"all":      {},
			"topic":    {Args: predict.Set(append(docs.List(), "*"))},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
		Flags: map[string]complete.Predictor{
			"config":            predict.Files("*.yaml"),
			"data-dir":          predict.Dirs("*"),
			"currency":          predict.Set{"usd", "eur", "gbp", "jpy", "chf"},
			"max-days":          predict.Something,
			"coingecko-api-key": predict.Something,
			"pro":               predict.Nothing,
			"log-file":          predict.Files("*.log"),
			"new":               predict.Something,
			"update":            predict.Nothing,
			"all":               predict.Nothing,
		},
	}
}

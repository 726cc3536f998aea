package commands

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/okra-platform/greeter/internal/wordfreq"
)

// WordCount prints token counts sorted by token
func (c *Controller) WordCount(ctx context.Context, args []string) error {
	return c.countWords(args, wordfreq.Lexicographic)
}

// WordFreq prints token counts sorted by descending count
func (c *Controller) WordFreq(ctx context.Context, args []string) error {
	return c.countWords(args, wordfreq.Frequency)
}

func (c *Controller) countWords(args []string, order wordfreq.Order) error {
	log.Debug().
		Stringer("order", order).
		Int("args", len(args)).
		Msg("counting tokens")
	return wordfreq.Run(args, c.stdin(), c.stdout(), order)
}

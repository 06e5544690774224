package serverless

import (
	"context"

	"github.com/okian/teamhub/internal/config"
)

func NewEntryWithLoader(pick Selector, load func(context.Context) (*config.Config, error)) *Entry {
	return &Entry{pick: pick, load: load}
}

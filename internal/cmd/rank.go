package cmd

import (
	"time"

	"github.com/jimezsa/jobassist/internal/listings"
	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/session"
)

type RankCmd struct {
	Input string `arg:"" optional:"" help:"JSON file written by 'search --format json' (- for stdin)." default:"-"`
	ViewOptions
}

func (r *RankCmd) Run(ctx *Context) error {
	results, err := listings.ReadFile(r.Input)
	if err != nil {
		return err
	}
	sess := session.New("")
	sess.Replace(models.SearchCriteria{}, results, nil, time.Now())
	return renderView(ctx, sess, r.ViewOptions)
}

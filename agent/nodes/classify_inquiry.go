package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
)

// ClassifyInquiry never fails on classifier trouble: errors and unrecognized
// output both route to general. Only a cancelled context stops the graph.
func ClassifyInquiry(
	ctx context.Context,
	in *GraphState,
	classifier contractx.Classifier,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	logger := log.Ctx(ctx)
	verdict, err := classifier.Classify(ctx, in.Message)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("classification failed, routing to general")
		verdict = contractx.Classification{Category: contractx.CategoryGeneral}
	case !verdict.Recognized:
		logger.Warn().Str("raw", verdict.Raw).Msg("unrecognized category, routing to general")
		verdict.Category = contractx.CategoryGeneral
	default:
		logger.Debug().Str("category", verdict.Category.String()).Msg("inquiry classified")
	}

	in.Classification = verdict
	return in, nil
}

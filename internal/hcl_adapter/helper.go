package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/reelgraph/internal/ctxlog"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional fields with non-nil,
// zero-width expression objects, so a simple nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}

	// A real attribute occupies bytes in the file, while a placeholder for an
	// omitted optional attribute has a zero-width range.
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// decodeOptional decodes expr into target when the attribute is present and
// reports whether it was.
func decodeOptional(ctx context.Context, expr hcl.Expression, attrName string, target any) (bool, error) {
	if !isExprDefined(ctx, expr, attrName) {
		return false, nil
	}
	if diags := gohcl.DecodeExpression(expr, nil, target); diags.HasErrors() {
		return false, fmt.Errorf("invalid value for %s: %w", attrName, diags)
	}
	return true, nil
}

// optionalNumber decodes an optional numeric attribute, returning nil when it
// was left out.
func optionalNumber(ctx context.Context, expr hcl.Expression, attrName string) (*float64, error) {
	var f float64
	ok, err := decodeOptional(ctx, expr, attrName, &f)
	if err != nil || !ok {
		return nil, err
	}
	return &f, nil
}

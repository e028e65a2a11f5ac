package identity

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"
)

const UnknownAccount = "unknown"

type Client interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Resolver looks up the account the scanner's credentials belong to
type Resolver struct {
	client Client
}

func NewResolver(cfg aws.Config) *Resolver {
	return NewResolverWithClient(sts.NewFromConfig(cfg))
}

func NewResolverWithClient(client Client) *Resolver {
	return &Resolver{client: client}
}

// AccountID returns the caller's account id, or UnknownAccount when the lookup fails.
func (r *Resolver) AccountID(ctx context.Context) string {
	output, err := r.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to resolve AWS account, reporting it as unknown")
		return UnknownAccount
	}

	account := aws.ToString(output.Account)
	if account == "" {
		return UnknownAccount
	}
	return account
}

// RegionFromARN extracts the region of an ARN such as a Lambda's invoked function ARN.
func RegionFromARN(resource, fallback string) string {
	parsed, err := arn.Parse(resource)
	if err != nil || parsed.Region == "" {
		return fallback
	}
	return parsed.Region
}

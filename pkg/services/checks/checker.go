package checks

import (
	"context"
	"errors"
	"os"

	"github.com/aws/smithy-go"
	"github.com/de-tools/grc-scanner/pkg/models/domain"
)

const (
	CheckerIAM        = "iam"
	CheckerS3         = "s3"
	CheckerEC2        = "ec2"
	CheckerCloudTrail = "cloudtrail"
)

// DefaultOrder is the fixed sequence in which checker output is merged into a report.
var DefaultOrder = []string{CheckerIAM, CheckerS3, CheckerEC2, CheckerCloudTrail}

// Checker evaluates one cloud subsystem and classifies what it finds.
type Checker interface {
	// Name returns the checker key used in the report (iam, s3, ec2, cloudtrail)
	Name() string
	// Run performs the checks. A nil report with a nil error means there was nothing to check.
	Run(ctx context.Context) (*domain.CheckerReport, error)
}

// ErrorCode returns the AWS API error code carried by err, or "" when there is none.
func ErrorCode(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}

func IsErrorCode(err error, codes ...string) bool {
	code := ErrorCode(err)
	if code == "" {
		return false
	}
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// InLambda reports whether the process runs inside AWS Lambda.
func InLambda() bool {
	_, ok := os.LookupEnv("AWS_LAMBDA_FUNCTION_NAME")
	return ok
}

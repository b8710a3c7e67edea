package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterGetter is the part of the SSM client used to read secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewSSMClient builds an SSM client from the default AWS credential chain.
func NewSSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// SecretKey returns the key used to sign session tokens. SECRET_KEY wins;
// otherwise the SecureString parameter named by SECRET_KEY_SSM_PARAMETER is
// read through getter. A nil getter with only the parameter configured is an
// error, as is ending up with no key at all.
func SecretKey(ctx context.Context, c map[string]string, getter ParameterGetter) (string, error) {
	if key := GetString(c, "SECRET_KEY", ""); key != "" {
		return key, nil
	}

	name := GetString(c, "SECRET_KEY_SSM_PARAMETER", "")
	if name == "" {
		return "", fmt.Errorf("no secret key configured: set SECRET_KEY or SECRET_KEY_SSM_PARAMETER")
	}
	if getter == nil {
		return "", fmt.Errorf("secret key parameter %s configured without an SSM client", name)
	}

	out, err := getter.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("reading parameter %s: %w", name, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", fmt.Errorf("parameter %s is empty", name)
	}
	return aws.ToString(out.Parameter.Value), nil
}

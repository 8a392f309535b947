package reporting

import (
	"context"

	"github.com/homemade/pickleshop/pkg/config"
	pkgerrors "github.com/homemade/pickleshop/pkg/errors"
	"github.com/homemade/pickleshop/pkg/logger"
)

// Policy decides what a failed write means for the user.
type Policy interface {
	// Resolve returns nil when the caller should report success.
	Resolve(ctx context.Context, op string, err error) error
	Name() string
}

// Lenient logs the failure and reports success anyway.
type Lenient struct {
	Logger *logger.Logger
}

func (p Lenient) Resolve(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	logWriteFailure(ctx, p.Logger, op, err, "write.failed.reported_success")
	return nil
}

func (Lenient) Name() string { return config.WriteReportingLenient }

// Strict logs the failure and hands it back to the caller.
type Strict struct {
	Logger *logger.Logger
}

func (p Strict) Resolve(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	logWriteFailure(ctx, p.Logger, op, err, "write.failed")
	return err
}

func (Strict) Name() string { return config.WriteReportingStrict }

// FromConfig returns the policy named by PICKLE_WRITE_REPORTING.
func FromConfig(mode string, logg *logger.Logger) Policy {
	if mode == config.WriteReportingStrict {
		return Strict{Logger: logg}
	}
	return Lenient{Logger: logg}
}

func logWriteFailure(ctx context.Context, logg *logger.Logger, op string, err error, msg string) {
	fields := pkgerrors.Dump(err).Fields()
	fields["op"] = op
	logg.Warn(logg.WithFields(ctx, fields), msg, err)
}

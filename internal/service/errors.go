package service

import (
	"errors"
	"sort"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Leganyst/appointment-booking/internal/apperr"
)

// toStatus переводит доменную ошибку в gRPC-статус.
// Сбой хранилища отдаётся без подробностей: клиент может повторить запрос.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var e *apperr.Error
	msg := err.Error()
	if errors.As(err, &e) && e.Message != "" {
		msg = e.Message
	}

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		st := status.New(codes.InvalidArgument, msg)
		if e != nil && len(e.Fields) > 0 {
			if withDetails, derr := st.WithDetails(badRequest(e.Fields)); derr == nil {
				st = withDetails
			}
		}
		return st.Err()
	case apperr.KindNotFound:
		return status.Error(codes.NotFound, msg)
	case apperr.KindNotAvailable:
		return status.Error(codes.FailedPrecondition, msg)
	case apperr.KindAlreadyExists:
		return status.Error(codes.AlreadyExists, msg)
	case apperr.KindUnauthorized:
		return status.Error(codes.PermissionDenied, msg)
	case apperr.KindForbidden:
		return status.Error(codes.PermissionDenied, msg)
	case apperr.KindInvalidCredentials:
		return status.Error(codes.Unauthenticated, msg)
	case apperr.KindConnectivity:
		return status.Error(codes.Unavailable, "service temporarily unavailable, try again later")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func badRequest(fields map[string]string) *errdetails.BadRequest {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	br := &errdetails.BadRequest{}
	for _, k := range keys {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       k,
			Description: fields[k],
		})
	}
	return br
}

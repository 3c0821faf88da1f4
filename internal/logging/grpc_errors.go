// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"strings"
)

// GRPCErrorType represents the category of gRPC error
type GRPCErrorType int

const (
	GRPCErrorUnknown GRPCErrorType = iota
	GRPCErrorNetwork
	GRPCErrorAuth
	GRPCErrorTimeout
	GRPCErrorInternal
	GRPCErrorUnavailable
)

// ParseGRPCError categorizes a gRPC error message
func ParseGRPCError(errMsg string) GRPCErrorType {
	lower := strings.ToLower(errMsg)

	// Check for specific error patterns
	if strings.Contains(lower, "rst_stream") || strings.Contains(lower, "connection reset") {
		return GRPCErrorNetwork
	}
	if strings.Contains(lower, "internal_error") {
		return GRPCErrorInternal
	}
	if strings.Contains(lower, "unavailable") || strings.Contains(lower, "service unavailable") {
		return GRPCErrorUnavailable
	}
	if strings.Contains(lower, "deadline") || strings.Contains(lower, "timeout") {
		return GRPCErrorTimeout
	}
	if strings.Contains(lower, "unauthenticated") || strings.Contains(lower, "unauthorized") {
		return GRPCErrorAuth
	}

	return GRPCErrorUnknown
}

// DescribeGRPCError turns a gRPC error message into a short, operator-facing
// description of what kind of failure this is, used when the control-plane
// health watch drops so the pipeline's logs say more than "stream closed".
func DescribeGRPCError(errMsg string) string {
	switch ParseGRPCError(errMsg) {
	case GRPCErrorNetwork:
		return "control-plane connection reset"
	case GRPCErrorInternal:
		return "control-plane reported an internal error"
	case GRPCErrorUnavailable:
		return "control-plane unavailable"
	case GRPCErrorTimeout:
		return "control-plane health check timed out"
	case GRPCErrorAuth:
		return "control-plane rejected authentication"
	default:
		return "control-plane health watch ended: " + strings.TrimSpace(errMsg)
	}
}

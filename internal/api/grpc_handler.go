package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"vyaparsetu-service/internal/classifier"
	"vyaparsetu-service/internal/domain"
	"vyaparsetu-service/internal/matcher"
	"vyaparsetu-service/internal/pricing"
	"vyaparsetu-service/internal/store"
)

const decisionEngineService = "vyaparsetu.v1.DecisionEngine"

// DecisionEngineServer is the gRPC surface of the engine. Every message is a
// google.protobuf.Struct mirroring the JSON bodies of the HTTP API.
type DecisionEngineServer interface {
	Classify(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Recommend(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Pricing(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Dashboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Override(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// unaryHandler adapts a DecisionEngineServer method to the handler shape of
// grpc.MethodDesc, the same shape protoc-gen-go-grpc emits.
func unaryHandler(
	method string,
	call func(DecisionEngineServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DecisionEngineServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + decisionEngineService + "/" + method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(DecisionEngineServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// DecisionEngineServiceDesc describes the DecisionEngine service for grpc.Server.RegisterService.
var DecisionEngineServiceDesc = grpc.ServiceDesc{
	ServiceName: decisionEngineService,
	HandlerType: (*DecisionEngineServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Classify", Handler: unaryHandler("Classify", DecisionEngineServer.Classify)},
		{MethodName: "Recommend", Handler: unaryHandler("Recommend", DecisionEngineServer.Recommend)},
		{MethodName: "Pricing", Handler: unaryHandler("Pricing", DecisionEngineServer.Pricing)},
		{MethodName: "Dashboard", Handler: unaryHandler("Dashboard", DecisionEngineServer.Dashboard)},
		{MethodName: "Override", Handler: unaryHandler("Override", DecisionEngineServer.Override)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vyaparsetu/v1/decision_engine.proto",
}

// RegisterDecisionEngineServer registers srv on s.
func RegisterDecisionEngineServer(s grpc.ServiceRegistrar, srv DecisionEngineServer) {
	s.RegisterService(&DecisionEngineServiceDesc, srv)
}

// GRPCHandler implements DecisionEngineServer.
type GRPCHandler struct {
	svc      Services
	opts     Options
	logger   *zap.Logger
	validate *validator.Validate
}

// NewGRPCHandler creates a new GRPCHandler.
func NewGRPCHandler(svc Services, opts Options) *GRPCHandler {
	opts = opts.withDefaults()
	return &GRPCHandler{
		svc:      svc,
		opts:     opts,
		logger:   opts.Logger,
		validate: validator.New(),
	}
}

// --- Helper: Error Mapping ---
func (s *GRPCHandler) mapErrorToGrpcStatus(err error, resourceName string, resourceID interface{}) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return status.Errorf(codes.NotFound, "%s with ID %v not found", resourceName, resourceID)
	case errors.Is(err, store.ErrOldValueMismatch):
		return status.Errorf(codes.Aborted, "%s %v was modified concurrently: %v", resourceName, resourceID, err)
	case errors.Is(err, store.ErrFieldNotOverridable), errors.Is(err, store.ErrInvalidOverride),
		errors.Is(err, classifier.ErrEmptyText), errors.Is(err, matcher.ErrCategoryRequired),
		errors.Is(err, pricing.ErrInvalidPrice):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, matcher.ErrUnknownCategory):
		return status.Error(codes.NotFound, err.Error())
	default:
		s.logger.Error("gRPC request failed",
			zap.String("resource", resourceName),
			zap.Any("id", resourceID),
			zap.Error(err))
		return status.Errorf(codes.Internal, "Failed to process request for %s %v", resourceName, resourceID)
	}
}

// fromStruct decodes a Struct into dst through its JSON form and validates it.
func (s *GRPCHandler) fromStruct(in *structpb.Struct, dst interface{}) error {
	raw, err := json.Marshal(in.AsMap())
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "Invalid request payload: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "Invalid request payload: %v", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "Validation failed: %v", err)
	}
	return nil
}

// toStruct converts v into a Struct through its JSON form.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// --- DecisionEngine gRPC Methods Implementation ---

func (s *GRPCHandler) Classify(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input ClassifyInput
	if err := s.fromStruct(req, &input); err != nil {
		return nil, err
	}
	rec, err := s.svc.Classifier.Classify(ctx, classifier.Request{
		Text:     input.Text,
		Language: input.Language,
		Location: input.Location,
	})
	if err != nil {
		return nil, s.mapErrorToGrpcStatus(err, "Classification", "(new)")
	}
	return toStruct(rec)
}

func (s *GRPCHandler) Recommend(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	start := time.Now()
	var input RecommendInput
	if err := s.fromStruct(req, &input); err != nil {
		return nil, err
	}
	mr := input.matchRequest()
	results, err := s.svc.Matcher.Recommend(mr)
	if err != nil {
		return nil, s.mapErrorToGrpcStatus(err, "Category", mr.Category)
	}
	return toStruct(RecommendResponse{
		MSMEProfile: domain.MSMEProfile{
			Category:     mr.Category,
			Description:  mr.Description,
			Location:     mr.Location,
			Language:     mr.Language,
			BusinessType: mr.BusinessType,
		},
		TopPlatforms:     results,
		ProcessingTimeMS: elapsedMS(start),
	})
}

// PricingInput is the Pricing request message. your_price may be a number or a numeric string.
type PricingInput struct {
	Category  string      `json:"category" validate:"required,max=255"`
	YourPrice json.Number `json:"your_price"`
	Location  string      `json:"location" validate:"omitempty,max=255"`
}

func (s *GRPCHandler) Pricing(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input PricingInput
	if err := s.fromStruct(req, &input); err != nil {
		return nil, err
	}
	b, err := s.svc.Pricing.Benchmark(pricing.Query{
		Category:  input.Category,
		YourPrice: input.YourPrice.String(),
		Location:  input.Location,
	})
	if err != nil {
		return nil, s.mapErrorToGrpcStatus(err, "Category", input.Category)
	}
	return toStruct(b)
}

func (s *GRPCHandler) Dashboard(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	m, err := s.svc.Store.Dashboard(ctx, s.opts.RecentLimit)
	if err != nil {
		return nil, s.mapErrorToGrpcStatus(err, "Dashboard", "-")
	}
	return toStruct(m)
}

func (s *GRPCHandler) Override(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input OverrideInput
	if err := s.fromStruct(req, &input); err != nil {
		return nil, err
	}
	adminID := input.AdminID
	if tokenAdmin, ok := AdminIDFromContext(ctx); ok {
		adminID = tokenAdmin
	}
	if adminID == "" {
		adminID = adminRole
	}

	audit, err := s.svc.Store.Override(ctx, domain.OverrideRequest{
		RecordID: input.RecordID,
		Field:    input.Field,
		OldValue: input.OldValue,
		NewValue: input.NewValue,
		Reason:   input.Reason,
		AdminID:  adminID,
	})
	if err != nil {
		return nil, s.mapErrorToGrpcStatus(err, "Classification", input.RecordID)
	}
	s.logger.Info("override applied",
		zap.String("record_id", audit.RecordID),
		zap.String("field", audit.Field),
		zap.String("audit_id", audit.AuditID))
	return toStruct(OverrideResponse{
		Success:  true,
		RecordID: audit.RecordID,
		AuditID:  audit.AuditID,
		Message:  fmt.Sprintf("Override applied. %s changed from '%s' to '%s'.", audit.Field, audit.OldValue, audit.NewValue),
	})
}

// --- Client ---

// DecisionEngineClient calls a remote DecisionEngine service.
type DecisionEngineClient struct {
	cc grpc.ClientConnInterface
}

// NewDecisionEngineClient wraps cc.
func NewDecisionEngineClient(cc grpc.ClientConnInterface) *DecisionEngineClient {
	return &DecisionEngineClient{cc: cc}
}

// Call invokes method with in and returns the response Struct.
func (c *DecisionEngineClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+decisionEngineService+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

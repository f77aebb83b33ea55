// Package grpc exposes the certificate issuance triggers to issuance workers over gRPC.
// Messages are plain Go structs encoded by a JSON codec, so the service is described by a
// hand-written grpc.ServiceDesc instead of generated protobuf code.
package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "luppiter.certs.v1.CertificateService"

// Full method names.
const (
	RegisterClientMethod     = "/" + ServiceName + "/RegisterClient"
	FetchDomainsMethod       = "/" + ServiceName + "/FetchDomains"
	RegisterChallengesMethod = "/" + ServiceName + "/RegisterChallenges"
	VerifiedCallbackMethod   = "/" + ServiceName + "/VerifiedCallback"
)

// CertificateServiceServer is the server API of the certificate service.
type CertificateServiceServer interface {
	RegisterClient(ctx context.Context, req *CertificateRequest) (*RegisterClientResponse, error)
	FetchDomains(ctx context.Context, req *CertificateRequest) (*FetchDomainsResponse, error)
	RegisterChallenges(ctx context.Context, req *RegisterChallengesRequest) (*Empty, error)
	VerifiedCallback(ctx context.Context, req *VerifiedCallbackRequest) (*VerifiedCallbackResponse, error)
}

// RegisterCertificateServiceServer registers srv on s.
func RegisterCertificateServiceServer(s grpc.ServiceRegistrar, srv CertificateServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a typed method into a grpc.MethodDesc handler.
func unaryHandler[Req any, Resp any](
	fullMethod string,
	call func(srv CertificateServiceServer, ctx context.Context, req *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := new(Req)
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CertificateServiceServer), ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CertificateServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, req, info, handler)
	}
}

// ServiceDesc is the grpc.ServiceDesc of the certificate service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CertificateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RegisterClient",
			Handler:    unaryHandler(RegisterClientMethod, CertificateServiceServer.RegisterClient),
		},
		{
			MethodName: "FetchDomains",
			Handler:    unaryHandler(FetchDomainsMethod, CertificateServiceServer.FetchDomains),
		},
		{
			MethodName: "RegisterChallenges",
			Handler:    unaryHandler(RegisterChallengesMethod, CertificateServiceServer.RegisterChallenges),
		},
		{
			MethodName: "VerifiedCallback",
			Handler:    unaryHandler(VerifiedCallbackMethod, CertificateServiceServer.VerifiedCallback),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "luppiter/certs/v1/certificate_service",
}

// CertificateServiceClient is the client API of the certificate service.
type CertificateServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCertificateServiceClient creates a client that encodes messages with the JSON codec.
func NewCertificateServiceClient(cc grpc.ClientConnInterface) *CertificateServiceClient {
	return &CertificateServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterClient calls CertificateService.RegisterClient.
func (c *CertificateServiceClient) RegisterClient(
	ctx context.Context,
	req *CertificateRequest,
	opts ...grpc.CallOption,
) (*RegisterClientResponse, error) {
	return invoke[RegisterClientResponse](ctx, c.cc, RegisterClientMethod, req, opts)
}

// FetchDomains calls CertificateService.FetchDomains.
func (c *CertificateServiceClient) FetchDomains(
	ctx context.Context,
	req *CertificateRequest,
	opts ...grpc.CallOption,
) (*FetchDomainsResponse, error) {
	return invoke[FetchDomainsResponse](ctx, c.cc, FetchDomainsMethod, req, opts)
}

// RegisterChallenges calls CertificateService.RegisterChallenges.
func (c *CertificateServiceClient) RegisterChallenges(
	ctx context.Context,
	req *RegisterChallengesRequest,
	opts ...grpc.CallOption,
) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, RegisterChallengesMethod, req, opts)
}

// VerifiedCallback calls CertificateService.VerifiedCallback.
func (c *CertificateServiceClient) VerifiedCallback(
	ctx context.Context,
	req *VerifiedCallbackRequest,
	opts ...grpc.CallOption,
) (*VerifiedCallbackResponse, error) {
	return invoke[VerifiedCallbackResponse](ctx, c.cc, VerifiedCallbackMethod, req, opts)
}

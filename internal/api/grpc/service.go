package grpc

import (
	"context"

	"github.com/m-zajac/busfactor/internal/app"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const reportMethod = "/busfactor.Service/Report"

// ReportRequest is the request message of Report call.
type ReportRequest struct {
	Language        string `json:"language"`
	ProjectsCount   int32  `json:"projectsCount"`
	IsolateFailures bool   `json:"isolateFailures,omitempty"`
}

// RiskyProject describes single project at risk.
type RiskyProject struct {
	Name           string  `json:"name"`
	Owner          string  `json:"owner"`
	TopContributor string  `json:"topContributor"`
	Share          float64 `json:"share"`
}

// FailedProject describes project that couldn't be analyzed.
type FailedProject struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
	Error string `json:"error"`
}

// ReportResponse is the response message of Report call.
type ReportResponse struct {
	Language string           `json:"language"`
	Projects []*RiskyProject  `json:"projects"`
	Failures []*FailedProject `json:"failures,omitempty"`
}

// ServiceServer is the server api for bus factor service.
type ServiceServer interface {
	Report(context.Context, *ReportRequest) (*ReportResponse, error)
}

// RegisterServiceServer registers service implementation in grpc server.
func RegisterServiceServer(s grpc.ServiceRegistrar, srv ServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: "busfactor.Service",
	HandlerType: (*ServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Report",
			Handler:    reportHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "busfactor",
}

func reportHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ReportRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ServiceServer).Report(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: reportMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ServiceServer).Report(ctx, req.(*ReportRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceClient is the client api for bus factor service.
type ServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewServiceClient creates new ServiceClient instance.
func NewServiceClient(cc grpc.ClientConnInterface) *ServiceClient {
	return &ServiceClient{cc: cc}
}

// Report calls remote Report method.
func (c *ServiceClient) Report(ctx context.Context, in *ReportRequest, opts ...grpc.CallOption) (*ReportResponse, error) {
	out := new(ReportResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, reportMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// AppService can compute bus factor reports.
type AppService interface {
	Report(ctx context.Context, language string, projectsCount int) ([]app.ReportEntry, error)
	ReportWithFailures(ctx context.Context, language string, projectsCount int) ([]app.ReportEntry, []app.ProjectFailure, error)
}

// Service implements ServiceServer.
type Service struct {
	service AppService
}

var _ ServiceServer = &Service{}

// NewService creates new Service instance.
func NewService(service AppService) *Service {
	return &Service{
		service: service,
	}
}

// Report returns projects at risk for given language.
func (s *Service) Report(ctx context.Context, req *ReportRequest) (*ReportResponse, error) {
	var (
		entries  []app.ReportEntry
		failures []app.ProjectFailure
		err      error
	)
	if req.IsolateFailures {
		entries, failures, err = s.service.ReportWithFailures(ctx, req.Language, int(req.ProjectsCount))
	} else {
		entries, err = s.service.Report(ctx, req.Language, int(req.ProjectsCount))
	}
	if err != nil {
		return nil, status.Error(codeForError(err), err.Error())
	}

	resp := ReportResponse{
		Language: req.Language,
		Projects: make([]*RiskyProject, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Projects = append(resp.Projects, &RiskyProject{
			Name:           e.Project.Name,
			Owner:          e.Project.Owner.Login,
			TopContributor: e.Risk.TopLogin,
			Share:          e.Risk.Share,
		})
	}
	for _, f := range failures {
		resp.Failures = append(resp.Failures, &FailedProject{
			Name:  f.Project.Name,
			Owner: f.Project.Owner.Login,
			Error: f.Err.Error(),
		})
	}

	return &resp, nil
}

func codeForError(err error) codes.Code {
	switch {
	case app.IsInvalidRequestError(err):
		return codes.InvalidArgument
	case app.IsInsufficientResultsError(err):
		return codes.NotFound
	case app.IsTooManyRequestsError(err):
		return codes.ResourceExhausted
	case app.IsRequestFailedError(err):
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

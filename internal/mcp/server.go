package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/bornholm/effortcalc/internal/format"
	"github.com/bornholm/effortcalc/internal/model"
	"github.com/bornholm/effortcalc/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Server represents the MCP server for effortcalc operations
type Server struct {
	server *mcp.Server
	store  *ChrootedStore
	config *model.Config
	logger *zap.Logger
}

// ServerOptions contains options for the MCP server
type ServerOptions struct {
	RootDir string
	Config  *model.Config
	Logger  *zap.Logger
}

// NewServer creates a new MCP server for effortcalc operations
func NewServer(opts *ServerOptions) (*Server, error) {
	rootDir := opts.RootDir
	if rootDir == "" {
		rootDir = "."
	}

	store, err := NewChrootedStore(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create chrooted store: %w", err)
	}

	config := opts.Config
	if config == nil {
		config = model.DefaultConfig()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "effortcalc",
		Version: "1.0.0",
	}, nil)

	s := &Server{
		server: server,
		store:  store,
		config: config,
		logger: logger,
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server on stdio transport
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Close closes the server and releases resources
func (s *Server) Close() error {
	return s.store.Close()
}

func (s *Server) registerTools() {
	// Document tools
	s.registerListDocumentsTool()
	s.registerCreateDocumentTool()
	s.registerDeleteDocumentTool()
	s.registerImportDocumentTool()

	// Report tools
	s.registerGetSummaryTool()
	s.registerGetPhaseAllocationTool()

	// Estimation tools
	s.registerListProcessesTool()
	s.registerSetEstimateTool()
	s.registerGetMultipliersTool()
	s.registerSetMultiplierTool()
	s.registerApplyProfileTool()

	// Config tools
	s.registerGetConfigTool()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// openSession loads the document at path into a new session
func (s *Server) openSession(path string) (*session.Session, error) {
	base, err := s.config.NewEstimationState("", "")
	if err != nil {
		return nil, err
	}

	state, err := s.store.LoadState(path, base)
	if err != nil {
		return nil, fmt.Errorf("failed to load estimation: %w", err)
	}

	return session.New(state, s.logger.With(zap.String("path", path))), nil
}

func (s *Server) saveSession(path string, sess *session.Session) error {
	if err := s.store.SaveState(path, sess.State()); err != nil {
		return fmt.Errorf("failed to save estimation: %w", err)
	}
	sess.MarkSaved()
	return nil
}

// list_documents tool
type listDocumentsArgs struct {
	Dir string `json:"dir,omitempty" jsonschema:"the directory to list estimation documents from, defaults to current directory"`
}

func (s *Server) registerListDocumentsTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List all estimation documents (*.estimate.json) in a directory",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listDocumentsArgs) (*mcp.CallToolResult, any, error) {
		dir := args.Dir
		if dir == "" {
			dir = "."
		}

		files, err := s.store.ListDocuments(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list documents: %w", err)
		}

		if len(files) == 0 {
			return textResult("No estimation documents found."), nil, nil
		}

		var sb strings.Builder
		sb.WriteString("Estimation documents:\n")
		for _, f := range files {
			sb.WriteString(fmt.Sprintf("- %s\n", f))
		}

		return textResult(sb.String()), nil, nil
	})
}

// create_document tool
type createDocumentArgs struct {
	Path        string `json:"path" jsonschema:"the file path for the estimation document"`
	Technology  string `json:"technology,omitempty" jsonschema:"target technology: Snowflake, Databricks, MDP or Powered By Excel(EV2), defaults to the configured one"`
	ProjectType string `json:"projectType,omitempty" jsonschema:"project type: New or Upgrade, defaults to the configured one"`
}

func (s *Server) registerCreateDocumentTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_document",
		Description: "Start a new estimation document with the default multipliers of a technology and project type",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createDocumentArgs) (*mcp.CallToolResult, any, error) {
		projectType, technology, err := s.parseProfile(args.ProjectType, args.Technology)
		if err != nil {
			return nil, nil, err
		}

		state, err := s.config.NewEstimationState(projectType, technology)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create estimation: %w", err)
		}

		if err := s.store.SaveState(args.Path, state); err != nil {
			return nil, nil, fmt.Errorf("failed to create estimation: %w", err)
		}

		return textResult(fmt.Sprintf("Created %s estimation on %s at %s", state.ProjectType, state.Technology, args.Path)), nil, nil
	})
}

// delete_document tool
type deleteDocumentArgs struct {
	Path string `json:"path" jsonschema:"the file path to the estimation document to delete"`
}

func (s *Server) registerDeleteDocumentTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Delete an estimation document",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args deleteDocumentArgs) (*mcp.CallToolResult, any, error) {
		if err := s.store.DeleteDocument(args.Path); err != nil {
			return nil, nil, fmt.Errorf("failed to delete document: %w", err)
		}

		return textResult(fmt.Sprintf("Deleted estimation document at %s", args.Path)), nil, nil
	})
}

// import_document tool
type importDocumentArgs struct {
	Path     string `json:"path" jsonschema:"the file path to the estimation document to import into"`
	Document string `json:"document" jsonschema:"the JSON configuration document to merge, keys missing from it keep their current values"`
}

func (s *Server) registerImportDocumentTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "import_document",
		Description: "Merge a JSON configuration document (Technology, ProjectType, EffortInputs, Estimates) into an estimation document",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args importDocumentArgs) (*mcp.CallToolResult, any, error) {
		sess, err := s.openSession(args.Path)
		if err != nil {
			return nil, nil, err
		}

		if err := sess.Import([]byte(args.Document)); err != nil {
			return nil, nil, fmt.Errorf("failed to import document: %w", err)
		}

		if err := s.saveSession(args.Path, sess); err != nil {
			return nil, nil, err
		}

		return textResult(fmt.Sprintf("Document imported into %s", args.Path)), nil, nil
	})
}

// get_summary tool
type getSummaryArgs struct {
	Path string `json:"path" jsonschema:"the file path to the estimation document"`
}

func (s *Server) registerGetSummaryTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_summary",
		Description: "Get the estimation report: efforts per input, most likely/optimistic/pessimistic/PERT estimates per process and phase allocation",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getSummaryArgs) (*mcp.CallToolResult, any, error) {
		sess, err := s.openSession(args.Path)
		if err != nil {
			return nil, nil, err
		}

		return textResult(format.NewMarkdownFormatter(s.config).Format(sess.State())), nil, nil
	})
}

// get_phase_allocation tool
type getPhaseAllocationArgs struct {
	Path string `json:"path" jsonschema:"the file path to the estimation document"`
}

func (s *Server) registerGetPhaseAllocationTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_phase_allocation",
		Description: "Get the allocation of the PERT estimates across lifecycle phases",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getPhaseAllocationArgs) (*mcp.CallToolResult, any, error) {
		sess, err := s.openSession(args.Path)
		if err != nil {
			return nil, nil, err
		}

		report, err := sess.PhaseReport()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to allocate phases: %w", err)
		}

		unit := s.config.TimeUnit.Acronym
		breakdown := sess.State().Breakdown

		var sb strings.Builder
		for _, row := range append(report.Rows, report.Total) {
			sb.WriteString(fmt.Sprintf("%s (PERT %.2f %s, total %.2f %s):\n", row.Process, row.PERT, unit, row.TotalEffort, unit))
			for _, phase := range model.Phases() {
				sb.WriteString(fmt.Sprintf("  %s (%d%%): %.2f %s\n", phase, breakdown[phase], row.Hours[phase], unit))
			}
		}
		if report.Warning != nil {
			sb.WriteString(fmt.Sprintf("\nWarning: %v\n", report.Warning))
		}

		return textResult(sb.String()), nil, nil
	})
}

// list_processes tool
type listProcessesArgs struct{}

func (s *Server) registerListProcessesTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_processes",
		Description: "List the delivery processes, their inputs and the effort key of each input",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listProcessesArgs) (*mcp.CallToolResult, any, error) {
		var sb strings.Builder
		for _, process := range model.Processes() {
			sb.WriteString(fmt.Sprintf("%s:\n", process))
			for _, in := range process.Inputs() {
				sb.WriteString(fmt.Sprintf("  %s -> %s (%s)\n", in.Name, in.Key, in.Key.Describe()))
			}
		}
		return textResult(sb.String()), nil, nil
	})
}

// set_estimate tool
type setEstimateArgs struct {
	Path       string  `json:"path" jsonschema:"the file path to the estimation document"`
	Process    string  `json:"process" jsonschema:"the process name, e.g. Silver Layer"`
	Input      string  `json:"input" jsonschema:"the input name within the process, e.g. Transform"`
	TotalCount *int    `json:"totalCount,omitempty" jsonschema:"optional total count of work items"`
	SPercent   *int    `json:"sPercent,omitempty" jsonschema:"optional percentage of small items"`
	MPercent   *int    `json:"mPercent,omitempty" jsonschema:"optional percentage of medium items"`
	LPercent   *int    `json:"lPercent,omitempty" jsonschema:"optional percentage of large items"`
	Comments   *string `json:"comments,omitempty" jsonschema:"optional comments"`
}

func (s *Server) registerSetEstimateTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_estimate",
		Description: "Set the total count and S/M/L split of a process input. Values not provided keep their current value. The split must add up to 100.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setEstimateArgs) (*mcp.CallToolResult, any, error) {
		process, err := model.ParseProcess(args.Process)
		if err != nil {
			return nil, nil, err
		}

		sess, err := s.openSession(args.Path)
		if err != nil {
			return nil, nil, err
		}

		record := sess.Record(process, args.Input)
		if args.TotalCount != nil {
			record.TotalCount = *args.TotalCount
		}
		if args.SPercent != nil {
			record.SPercent = *args.SPercent
		}
		if args.MPercent != nil {
			record.MPercent = *args.MPercent
		}
		if args.LPercent != nil {
			record.LPercent = *args.LPercent
		}
		if args.Comments != nil {
			record.Comments = *args.Comments
		}

		updated, err := sess.SetEstimate(process, args.Input, record.TotalCount, record.SPercent, record.MPercent, record.LPercent, record.Comments)
		if err != nil {
			return nil, nil, err
		}

		if err := s.saveSession(args.Path, sess); err != nil {
			return nil, nil, err
		}

		return textResult(fmt.Sprintf("Estimated effort for %s / %s: %.2f %s (Total %d, S/M/L %d/%d/%d%%)",
			process, args.Input, updated.Effort, s.config.TimeUnit.Acronym,
			updated.TotalCount, updated.SPercent, updated.MPercent, updated.LPercent)), nil, nil
	})
}

// get_multipliers tool
type getMultipliersArgs struct {
	Path string `json:"path" jsonschema:"the file path to the estimation document"`
}

func (s *Server) registerGetMultipliersTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_multipliers",
		Description: "Get the hours per unit of every effort key for each size",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getMultipliersArgs) (*mcp.CallToolResult, any, error) {
		sess, err := s.openSession(args.Path)
		if err != nil {
			return nil, nil, err
		}

		state := sess.State()

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Effort multipliers for %s project on %s:\n", state.ProjectType, state.Technology))
		for _, key := range model.EffortKeys() {
			m := state.Multipliers.Get(key)
			sb.WriteString(fmt.Sprintf("  %s: S=%.2f, M=%.2f, L=%.2f\n", key, m.Small, m.Medium, m.Large))
		}

		return textResult(sb.String()), nil, nil
	})
}

// set_multiplier tool
type setMultiplierArgs struct {
	Path      string  `json:"path" jsonschema:"the file path to the estimation document"`
	EffortKey string  `json:"effortKey" jsonschema:"the effort key, e.g. Queries"`
	Size      string  `json:"size" jsonschema:"the size: S, M or L"`
	Hours     float64 `json:"hours" jsonschema:"the hours per unit, must be >= 0"`
}

func (s *Server) registerSetMultiplierTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_multiplier",
		Description: "Set the hours per unit of an effort key for one size",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setMultiplierArgs) (*mcp.CallToolResult, any, error) {
		key, err := model.ParseEffortKey(args.EffortKey)
		if err != nil {
			return nil, nil, err
		}
		size, err := model.ParseSize(args.Size)
		if err != nil {
			return nil, nil, err
		}

		sess, err := s.openSession(args.Path)
		if err != nil {
			return nil, nil, err
		}

		if err := sess.SetMultiplier(key, size, args.Hours); err != nil {
			return nil, nil, err
		}

		if err := s.saveSession(args.Path, sess); err != nil {
			return nil, nil, err
		}

		return textResult(fmt.Sprintf("Multiplier %s/%s set to %.2f", key, size, args.Hours)), nil, nil
	})
}

// apply_profile tool
type applyProfileArgs struct {
	Path        string `json:"path" jsonschema:"the file path to the estimation document"`
	Technology  string `json:"technology,omitempty" jsonschema:"target technology, defaults to the current one"`
	ProjectType string `json:"projectType,omitempty" jsonschema:"project type, defaults to the current one"`
}

func (s *Server) registerApplyProfileTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "apply_profile",
		Description: "Switch technology and project type and overlay their default multipliers. Keys the profile does not define keep their values.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args applyProfileArgs) (*mcp.CallToolResult, any, error) {
		sess, err := s.openSession(args.Path)
		if err != nil {
			return nil, nil, err
		}

		state := sess.State()
		projectType, technology := state.ProjectType, state.Technology
		if args.ProjectType != "" {
			if projectType, err = model.ParseProjectType(args.ProjectType); err != nil {
				return nil, nil, err
			}
		}
		if args.Technology != "" {
			if technology, err = model.ParseTechnology(args.Technology); err != nil {
				return nil, nil, err
			}
		}

		if err := sess.SelectProfile(projectType, technology); err != nil {
			return nil, nil, err
		}

		if err := s.saveSession(args.Path, sess); err != nil {
			return nil, nil, err
		}

		return textResult(fmt.Sprintf("Applied %s/%s defaults to %s", projectType, technology, args.Path)), nil, nil
	})
}

// get_config tool
type getConfigArgs struct{}

func (s *Server) registerGetConfigTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_config",
		Description: "Get the current effortcalc configuration",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getConfigArgs) (*mcp.CallToolResult, any, error) {
		var sb strings.Builder
		sb.WriteString("Configuration:\n")
		sb.WriteString(fmt.Sprintf("  Default Technology: %s\n", s.config.DefaultTechnology))
		sb.WriteString(fmt.Sprintf("  Default Project Type: %s\n", s.config.DefaultProjectType))
		sb.WriteString(fmt.Sprintf("  Time Unit: %s (%s)\n", s.config.TimeUnit.Label, s.config.TimeUnit.Acronym))
		sb.WriteString(fmt.Sprintf("  Round Up Estimations: %v\n\n", s.config.RoundUpEstimations))

		breakdown := s.config.GetPhaseBreakdown()
		sb.WriteString("Phase Breakdown:\n")
		for _, phase := range model.Phases() {
			sb.WriteString(fmt.Sprintf("  %s: %d%%\n", phase, breakdown[phase]))
		}
		if warning := breakdown.Check(); warning != nil {
			sb.WriteString(fmt.Sprintf("  Warning: %v\n", warning))
		}

		return textResult(sb.String()), nil, nil
	})
}

func (s *Server) parseProfile(projectType, technology string) (model.ProjectType, model.Technology, error) {
	pt := s.config.DefaultProjectType
	tech := s.config.DefaultTechnology

	if projectType != "" {
		parsed, err := model.ParseProjectType(projectType)
		if err != nil {
			return "", "", err
		}
		pt = parsed
	}
	if technology != "" {
		parsed, err := model.ParseTechnology(technology)
		if err != nil {
			return "", "", err
		}
		tech = parsed
	}

	return pt, tech, nil
}

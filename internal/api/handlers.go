package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/buildinfo"
	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/remap"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// ArtifactResponse is the body of a successful artifact lookup.
type ArtifactResponse struct {
	Artifact   artifact.Coordinate   `json:"artifact"`
	Repository repository.Repository `json:"repository"`
	Path       string                `json:"path"`
	Match      repository.Match      `json:"match"`
	Degraded   bool                  `json:"degraded"`
	Warnings   []string              `json:"warnings,omitempty"`
}

// VersionsResponse is the body of a successful range lookup.
type VersionsResponse struct {
	Versions     []string                         `json:"versions"`
	Repositories map[string]repository.Repository `json:"repositories,omitempty"`
	Match        repository.Match                 `json:"match"`
	Degraded     bool                             `json:"degraded"`
	Warnings     []string                         `json:"warnings,omitempty"`
}

// DepmapResponse is the body of a remap lookup.
type DepmapResponse struct {
	Mode   string       `json:"mode"`
	Target remap.Target `json:"target"`
	Mapped bool         `json:"mapped"`
	Elided bool         `json:"elided"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
	Trace string      `json:"trace"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   buildinfo.Version,
		"secondary": s.sys != nil && s.sys.SecondaryEnabled(),
	})
}

func (s *Server) resolveArtifact(w http.ResponseWriter, r *http.Request) {
	c, ok := s.coordinate(w, r)
	if !ok {
		return
	}
	res, err := s.sys.ResolveArtifact(r.Context(), s.session(), repository.ArtifactRequest{
		Artifact: c,
		Context:  "api",
		Trace:    repository.Trace{ID: traceID(r.Context())},
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ArtifactResponse{
		Artifact:   res.Artifact,
		Repository: res.Repository,
		Path:       res.Path,
		Match:      res.Match,
		Degraded:   res.Degraded(),
		Warnings:   messages(res.Exceptions),
	})
}

func (s *Server) resolveVersions(w http.ResponseWriter, r *http.Request) {
	c, ok := s.coordinate(w, r)
	if !ok {
		return
	}
	res, err := s.sys.ResolveVersionRange(r.Context(), s.session(), repository.VersionRangeRequest{
		Artifact: c,
		Context:  "api",
		Trace:    repository.Trace{ID: traceID(r.Context())},
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	versions := res.Versions
	if versions == nil {
		versions = []string{}
	}
	writeJSON(w, http.StatusOK, VersionsResponse{
		Versions:     versions,
		Repositories: res.Repositories,
		Match:        res.Match,
		Degraded:     res.Degraded(),
		Warnings:     messages(res.Exceptions),
	})
}

func (s *Server) lookupDepmap(w http.ResponseWriter, r *http.Request) {
	if s.depmap == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "no depmap configured"))
		return
	}
	c, ok := s.coordinate(w, r)
	if !ok {
		return
	}
	table, err := s.depmap.Get(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	target, mapped := table.Find(c.Group, c.Name, c.Version)
	if !mapped {
		target = table.Lookup(c.Group, c.Name, c.Version)
	}
	writeJSON(w, http.StatusOK, DepmapResponse{
		Mode:   table.Mode().String(),
		Target: target,
		Mapped: mapped,
		Elided: mapped && target.Elided(),
	})
}

// coordinate parses the {coordinate} path parameter, writing a 400 on
// failure.
func (s *Server) coordinate(w http.ResponseWriter, r *http.Request) (artifact.Coordinate, bool) {
	raw, err := url.PathUnescape(chi.URLParam(r, "coordinate"))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidCoordinate, err, "invalid coordinate encoding"))
		return artifact.Coordinate{}, false
	}
	c, err := artifact.Parse(raw)
	if err != nil {
		s.writeError(w, r, err)
		return artifact.Coordinate{}, false
	}
	return c, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "trace", traceID(r.Context()))
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code, Trace: traceID(r.Context())})
}

// statusFor maps an error to an HTTP status by its code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeInvalidCoordinate), errors.Is(err, errors.ErrCodeInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeResolutionExhausted), errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported), errors.Is(err, errors.ErrCodeNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, errors.ErrCodeNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messages(errs []error) []string {
	var out []string
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

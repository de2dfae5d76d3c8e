// Package provisioning implements ProvisioningServer: the
// local bootstrap HTTP service that runs whenever no robot credentials
// are on file, collecting network and robot credentials from a
// companion app before handing control back to the normal run loop.
package provisioning

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"go.viam.com/micrordk/credentials"
	"go.viam.com/micrordk/events"
	"go.viam.com/micrordk/logging"
)

const (
	manufacturer = "viam"
	model        = "micro-rdk"
)

// Info is the response body of GET /info.
type Info struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	FragmentID   string `json:"fragment_id"`
}

// Server is the provisioning HTTP surface, bound to a soft-AP address by
// the caller (cmd/micrordk).
type Server struct {
	store  credentials.Store
	bus    *events.Bus
	logger logging.Logger
	router chi.Router
}

func New(store credentials.Store, bus *events.Bus, logger logging.Logger) *Server {
	s := &Server{store: store, bus: bus, logger: logger}
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Get("/info", s.handleInfo)
	r.Post("/network_credentials", s.handleSetNetwork)
	r.Post("/robot_credentials", s.handleSetRobot)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	fragmentID, err := s.store.LoadString(r.Context(), credentials.FragmentID)
	if err != nil && err != credentials.ErrNotFound {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, Info{Manufacturer: manufacturer, Model: model, FragmentID: fragmentID})
}

type setNetworkRequest struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

func (s *Server) handleSetNetwork(w http.ResponseWriter, r *http.Request) {
	var req setNetworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.StoreNetwork(r.Context(), req.SSID, req.Password); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Infow("network credentials set", "ssid", req.SSID)
	s.maybeFinish(r)
	w.WriteHeader(http.StatusOK)
}

type setRobotRequest struct {
	ID         string `json:"id"`
	Secret     string `json:"secret"`
	AppAddress string `json:"app_address"`
}

func (s *Server) handleSetRobot(w http.ResponseWriter, r *http.Request) {
	var req setRobotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	creds := credentials.RobotCredentials{ID: req.ID, Secret: req.Secret, AppAddress: req.AppAddress}
	if err := s.store.StoreRobotCredentials(r.Context(), creds); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.store.StoreAppAddress(r.Context(), req.AppAddress); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Infow("robot credentials set", "robot_id", req.ID)
	s.maybeFinish(r)
	w.WriteHeader(http.StatusOK)
}

// maybeFinish emits ProvisioningDone once both network and robot
// credentials are present, for ViamServer to consume and
// exit provisioning mode.
func (s *Server) maybeFinish(r *http.Request) {
	hasNet, err := s.store.HasNetwork(r.Context())
	if err != nil || !hasNet {
		return
	}
	hasRobot, err := s.store.HasRobotCredentials(r.Context())
	if err != nil || !hasRobot {
		return
	}
	s.bus.Publish(events.Event{Kind: events.ProvisioningDone})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

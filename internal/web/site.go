// Package web serves the server-rendered pages of the site.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/ayurcare/internal/account"
	"github.com/hyperengineering/ayurcare/internal/anthro"
	"github.com/hyperengineering/ayurcare/internal/remedy"
	"github.com/hyperengineering/ayurcare/internal/store"
	"github.com/hyperengineering/ayurcare/internal/types"
	"github.com/hyperengineering/ayurcare/internal/wellness"
)

const (
	msgFeedbackThanks  = "Thanks for your feedback!"
	msgUnexpected      = "Something went wrong. Please try again."
	msgInvalidMeasures = "Please enter valid height, weight and age."
	msgInvalidSex      = "Invalid sex selected."

	notProvided = "Not provided"
	noDetails   = "—"
)

// Site serves the HTML pages.
type Site struct {
	accounts      *account.Service
	records       store.RecordStore
	sessions      *SessionManager
	catalog       *remedy.Catalog
	views         *renderer
	showResetCode bool
	logger        *slog.Logger
}

// NewSite parses the page templates and returns a Site. showResetCode
// prints issued reset codes on the page for deployments without email.
func NewSite(accounts *account.Service, records store.RecordStore, sessions *SessionManager,
	catalog *remedy.Catalog, showResetCode bool, logger *slog.Logger) (*Site, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "web")

	views, err := newRenderer(logger)
	if err != nil {
		return nil, err
	}

	return &Site{
		accounts:      accounts,
		records:       records,
		sessions:      sessions,
		catalog:       catalog,
		views:         views,
		showResetCode: showResetCode,
		logger:        logger,
	}, nil
}

// Routes returns the page router.
func (s *Site) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.sessions.Middleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login_register", http.StatusFound)
	})
	r.Get("/login_register", s.LoginRegister)
	r.Post("/login_register", s.LoginRegister)
	r.Get("/logout", s.Logout)
	r.Get("/forgot", s.Forgot)
	r.Post("/forgot", s.Forgot)
	r.Get("/reset", s.Reset)
	r.Post("/reset", s.Reset)
	r.Get("/yoga", s.Yoga)
	r.Post("/yoga", s.Yoga)
	r.Get("/allopathic", s.Allopathic)
	r.Post("/allopathic", s.Allopathic)
	r.Get("/ayurvedic", s.Ayurvedic)
	r.Post("/ayurvedic", s.Ayurvedic)
	r.Get("/feedback", s.Feedback)
	r.Post("/feedback", s.Feedback)

	r.Group(func(r chi.Router) {
		r.Use(requireLogin)
		r.Get("/home", s.Home)
		r.Get("/consult", s.Consult)
		r.Post("/consult", s.Consult)
		r.Get("/dashboard", s.Dashboard)
		r.Post("/dashboard", s.Dashboard)
		r.Get("/bmi", s.BMI)
		r.Post("/bmi", s.BMI)
	})

	return r
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// --- accounts ---

type messagePage struct {
	Msg string
}

// LoginRegister handles both forms of the login page, picked by the
// "action" field.
func (s *Site) LoginRegister(w http.ResponseWriter, r *http.Request) {
	var page messagePage
	if r.Method == http.MethodPost {
		action := strings.ToLower(formValue(r, "action"))
		email := formValue(r, "email")
		password := formValue(r, "password")

		switch action {
		case "register":
			if _, err := s.accounts.Register(r.Context(), email, password); err != nil {
				s.logUnexpected(err, "register failed")
				page.Msg = account.Message(err)
			} else {
				page.Msg = account.MsgRegistered
			}
		case "login":
			u, err := s.accounts.Login(r.Context(), email, password)
			if err != nil {
				s.logUnexpected(err, "login failed")
				page.Msg = account.Message(account.ErrInvalidCredentials)
				break
			}
			if _, err := s.sessions.Start(r.Context(), w, u.Email); err != nil {
				s.logger.Error("start session failed", "error", err)
				page.Msg = msgUnexpected
				break
			}
			http.Redirect(w, r, "/home", http.StatusFound)
			return
		}
	}
	s.views.render(w, r, http.StatusOK, "login_register", page)
}

// Logout ends the session.
func (s *Site) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	if err := s.sessions.Destroy(r.Context(), w, sess); err != nil {
		s.logger.Error("destroy session failed", "error", err)
	}
	http.Redirect(w, r, "/login_register", http.StatusFound)
}

type forgotPage struct {
	Info  string
	Code  string
	Email string
}

// Forgot issues a reset code.
func (s *Site) Forgot(w http.ResponseWriter, r *http.Request) {
	var page forgotPage
	if r.Method == http.MethodPost {
		page.Email = strings.ToLower(formValue(r, "email"))
		code, err := s.accounts.RequestReset(r.Context(), page.Email)
		if err != nil {
			s.logUnexpected(err, "reset request failed")
			page.Info = account.Message(err)
		} else {
			page.Info = s.accounts.ResetIssuedMessage()
			if s.showResetCode {
				page.Code = code
			}
		}
	}
	s.views.render(w, r, http.StatusOK, "forgot", page)
}

type resetPage struct {
	Msg     string
	Success bool
}

// Reset sets a new password from a reset code.
func (s *Site) Reset(w http.ResponseWriter, r *http.Request) {
	var page resetPage
	if r.Method == http.MethodPost {
		err := s.accounts.ResetPassword(r.Context(),
			formValue(r, "email"),
			formValue(r, "code"),
			formValue(r, "new_password"),
			formValue(r, "confirm_password"),
		)
		if err != nil {
			s.logUnexpected(err, "password reset failed")
			page.Msg = account.Message(err)
		} else {
			page.Msg = account.MsgPasswordUpdated
			page.Success = true
		}
	}
	s.views.render(w, r, http.StatusOK, "reset", page)
}

// logUnexpected logs errors that are not user-facing outcomes.
func (s *Site) logUnexpected(err error, msg string) {
	if !account.IsOutcome(err) {
		s.logger.Error(msg, "error", err)
	}
}

// --- pages ---

// Home is the landing page after login.
func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	s.views.render(w, r, http.StatusOK, "home", nil)
}

type consultPage struct {
	Confirmation *types.Consultation
	Error        string
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Consult records a consultation request and echoes it back.
func (s *Site) Consult(w http.ResponseWriter, r *http.Request) {
	var page consultPage
	status := http.StatusOK

	if r.Method == http.MethodPost {
		sess, _ := SessionFromContext(r.Context())
		c := types.Consultation{
			UserEmail:   sess.Data.Email,
			Name:        orDefault(formValue(r, "name"), notProvided),
			Disease:     orDefault(formValue(r, "disease"), notProvided),
			DoctorType:  orDefault(formValue(r, "doctor_type"), notProvided),
			Description: orDefault(formValue(r, "description"), noDetails),
		}
		saved, err := s.records.SaveConsultation(r.Context(), c)
		if err != nil {
			s.logger.Error("save consultation failed", "error", err)
			page.Error = msgUnexpected
			status = http.StatusInternalServerError
		} else {
			page.Confirmation = saved
		}
	}
	s.views.render(w, r, status, "consult", page)
}

type yogaPage struct {
	Disease string
	Poses   []string
	Details []remedy.Pose
}

// Yoga suggests poses for a disease.
func (s *Site) Yoga(w http.ResponseWriter, r *http.Request) {
	var page yogaPage
	if r.Method == http.MethodPost {
		page.Disease = formValue(r, "disease")
		if page.Disease != "" {
			page.Poses = remedy.SuggestYoga(page.Disease)
			page.Details = s.catalog.PosesFor(page.Poses)
		}
	}
	s.views.render(w, r, http.StatusOK, "yoga", page)
}

type remedyPage struct {
	Disease  string
	Answered bool
	Text     string
	Medicine *remedy.Medicine
}

// medicineFor resolves the medicine named by the first word of a
// suggestion, e.g. "Paracetamol 500 mg ...".
func (s *Site) medicineFor(suggestion string) *remedy.Medicine {
	fields := strings.Fields(suggestion)
	if len(fields) == 0 {
		return nil
	}
	if m, ok := s.catalog.Medicine(fields[0]); ok {
		return &m
	}
	return nil
}

// Allopathic looks up a conventional medicine for a disease.
func (s *Site) Allopathic(w http.ResponseWriter, r *http.Request) {
	s.remedyLookup(w, r, "allopathic", remedy.Allopathic)
}

// Ayurvedic looks up a home remedy for a disease.
func (s *Site) Ayurvedic(w http.ResponseWriter, r *http.Request) {
	s.remedyLookup(w, r, "ayurvedic", remedy.Ayurvedic)
}

func (s *Site) remedyLookup(w http.ResponseWriter, r *http.Request, tmpl string, lookup func(string) (string, bool)) {
	var page remedyPage
	if r.Method == http.MethodPost {
		page.Disease = remedy.NormalizeDisease(r.PostFormValue("disease"))
		text, found := lookup(page.Disease)
		page.Answered = true
		page.Text = text
		if found {
			page.Medicine = s.medicineFor(text)
		}
	}
	s.views.render(w, r, http.StatusOK, tmpl, page)
}

type chartBar struct {
	Label string
	Score int
}

type dashboardPage struct {
	Result *wellness.InsightResult
	Mood   string
	Sleep  int
	Stress int
	Chart  []chartBar
}

// Dashboard scores the day's wellness and keeps a rolling history in the
// session.
func (s *Site) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	page := dashboardPage{
		Mood:   "ok",
		Sleep:  wellness.DefaultSleepHours,
		Stress: wellness.DefaultStressLevel,
	}

	if r.Method == http.MethodPost {
		mood := strings.ToLower(orDefault(formValue(r, "mood"), "ok"))
		sleep := orDefault(formValue(r, "sleep"), strconv.Itoa(wellness.DefaultSleepHours))
		stress := orDefault(formValue(r, "stress"), strconv.Itoa(wellness.DefaultStressLevel))

		res := wellness.ComputeInsights(wellness.ParseMood(mood), sleep, stress)
		page.Result = &res
		page.Mood = mood
		page.Sleep = wellness.ParseOrDefault(sleep, wellness.DefaultSleepHours)
		page.Stress = wellness.ParseOrDefault(stress, wellness.DefaultStressLevel)

		sess.Data.Wellness = sess.Data.Wellness.Push(res.Score)
		if err := s.sessions.Save(r.Context(), sess); err != nil {
			s.logger.Error("save session failed", "error", err)
		}
	}

	labels := sess.Data.Wellness.Labels()
	for i, score := range sess.Data.Wellness.Scores() {
		page.Chart = append(page.Chart, chartBar{Label: labels[i], Score: score})
	}

	s.views.render(w, r, http.StatusOK, "dashboard", page)
}

type bmiPage struct {
	Form   BMIForm
	Result *anthro.BodyMetricsResult
	Error  string
}

func defaultBMIForm() BMIForm {
	return BMIForm{Sex: string(anthro.SexMale), Activity: string(anthro.ActivityModerate)}
}

// echoNumber renders a parsed measurement for the form, blank for zero.
func echoNumber(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BMI runs the body metrics calculator.
func (s *Site) BMI(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	page := bmiPage{Form: defaultBMIForm()}
	if sess.Data.LastBMI != nil {
		page.Form = *sess.Data.LastBMI
	}

	if r.Method == http.MethodPost {
		in := anthro.ParseForm(anthro.FormValues{
			Height:   r.PostFormValue("height_cm"),
			Weight:   r.PostFormValue("weight_kg"),
			Waist:    r.PostFormValue("waist_cm"),
			Age:      r.PostFormValue("age"),
			Sex:      r.PostFormValue("sex"),
			Activity: r.PostFormValue("activity"),
		})

		page.Form = BMIForm{
			Height:   echoNumber(in.HeightCm),
			Weight:   echoNumber(in.WeightKg),
			Waist:    echoNumber(in.WaistCm),
			Age:      echoNumber(float64(in.AgeYears)),
			Sex:      string(in.Sex),
			Activity: string(in.Activity),
		}

		res, err := anthro.Compute(in)
		switch {
		case errors.Is(err, anthro.ErrInvalidSex):
			page.Error = msgInvalidSex
		case err != nil:
			page.Error = msgInvalidMeasures
		default:
			page.Result = res
		}

		form := page.Form
		sess.Data.LastBMI = &form
		if err := s.sessions.Save(r.Context(), sess); err != nil {
			s.logger.Error("save session failed", "error", err)
		}
	}

	s.views.render(w, r, http.StatusOK, "bmi", page)
}

// Feedback stores a feedback message.
func (s *Site) Feedback(w http.ResponseWriter, r *http.Request) {
	var page messagePage
	status := http.StatusOK

	if r.Method == http.MethodPost {
		_, err := s.records.SaveFeedback(r.Context(), types.Feedback{
			Name:    formValue(r, "name"),
			Email:   formValue(r, "email"),
			Message: formValue(r, "message"),
		})
		if err != nil {
			s.logger.Error("save feedback failed", "error", err)
			page.Msg = msgUnexpected
			status = http.StatusInternalServerError
		} else {
			page.Msg = msgFeedbackThanks
		}
	}
	s.views.render(w, r, status, "feedback", page)
}

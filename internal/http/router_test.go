package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"go.uber.org/zap"

	"coursehub/internal/domain"
	"coursehub/internal/media"
	"coursehub/internal/repository"
	"coursehub/internal/service"
)

// Stubs en memoria para armar el router completo en tests.

type stubUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]domain.User
	byID    map[string]domain.User
}

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	s := &stubUserRepo{
		byEmail: make(map[string]domain.User),
		byID:    make(map[string]domain.User),
	}
	for _, u := range users {
		s.byEmail[u.Email] = u
		s.byID[u.ID] = u
	}
	return s
}

func (s *stubUserRepo) Create(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (s *stubUserRepo) UpdatePassword(ctx context.Context, email, passwordHash string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byEmail[email]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = updatedAt
	s.byEmail[email] = u
	s.byID[u.ID] = u
	return nil
}

func (s *stubUserRepo) List(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, 0, len(s.byEmail))
	for _, u := range s.byEmail {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(s.byID, id)
	delete(s.byEmail, u.Email)
	return nil
}

type stubOTPRepo struct {
	mu    sync.Mutex
	items map[string]domain.PasswordOTP
}

func newStubOTPRepo() *stubOTPRepo {
	return &stubOTPRepo{items: make(map[string]domain.PasswordOTP)}
}

func (s *stubOTPRepo) Upsert(ctx context.Context, email, codeHash string, createdAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[email] = domain.PasswordOTP{Email: email, CodeHash: codeHash, CreatedAt: createdAt}
	return nil
}

func (s *stubOTPRepo) Get(ctx context.Context, email string) (domain.PasswordOTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	otp, ok := s.items[email]
	if !ok {
		return domain.PasswordOTP{}, pgx.ErrNoRows
	}
	return otp, nil
}

func (s *stubOTPRepo) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, email)
	return nil
}

type stubCourseRepo struct {
	mu    sync.Mutex
	items map[string]domain.Course
}

func newStubCourseRepo(courses ...domain.Course) *stubCourseRepo {
	s := &stubCourseRepo{items: make(map[string]domain.Course)}
	for _, c := range courses {
		s.items[c.ID] = c
	}
	return s
}

func (s *stubCourseRepo) Create(ctx context.Context, course domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[course.ID] = course
	return nil
}

func (s *stubCourseRepo) GetByID(ctx context.Context, id string) (domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return domain.Course{}, pgx.ErrNoRows
	}
	return c, nil
}

func (s *stubCourseRepo) List(ctx context.Context) ([]domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Course, 0, len(s.items))
	for _, c := range s.items {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubCourseRepo) Update(ctx context.Context, course domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[course.ID]; !ok {
		return pgx.ErrNoRows
	}
	s.items[course.ID] = course
	return nil
}

func (s *stubCourseRepo) Delete(ctx context.Context, id string) (domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return domain.Course{}, pgx.ErrNoRows
	}
	delete(s.items, id)
	return c, nil
}

type stubPurchaseRepo struct {
	mu      sync.Mutex
	byUser  map[string][]domain.Purchase
	courses *stubCourseRepo
}

func newStubPurchaseRepo(courses *stubCourseRepo) *stubPurchaseRepo {
	return &stubPurchaseRepo{
		byUser:  make(map[string][]domain.Purchase),
		courses: courses,
	}
}

func (s *stubPurchaseRepo) Add(ctx context.Context, p domain.Purchase) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byUser[p.UserID] {
		if existing.CourseID == p.CourseID {
			return false, nil
		}
	}
	s.byUser[p.UserID] = append(s.byUser[p.UserID], p)
	return true, nil
}

func (s *stubPurchaseRepo) ListByUser(ctx context.Context, userID string) ([]domain.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Purchase(nil), s.byUser[userID]...), nil
}

func (s *stubPurchaseRepo) ListCoursesByUser(ctx context.Context, userID string) ([]domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Course
	for _, p := range s.byUser[userID] {
		if c, err := s.courses.GetByID(ctx, p.CourseID); err == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubOrderRepo struct {
	mu    sync.Mutex
	items map[string]domain.PaymentOrder
}

func newStubOrderRepo(orders ...domain.PaymentOrder) *stubOrderRepo {
	s := &stubOrderRepo{items: make(map[string]domain.PaymentOrder)}
	for _, o := range orders {
		s.items[o.ID] = o
	}
	return s
}

func (s *stubOrderRepo) Create(ctx context.Context, order domain.PaymentOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[order.ID] = order
	return nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id string) (domain.PaymentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.items[id]
	if !ok {
		return domain.PaymentOrder{}, pgx.ErrNoRows
	}
	return o, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	s.items[id] = o
	return nil
}

type stubTestimonialRepo struct {
	mu    sync.Mutex
	items map[string]domain.Testimonial
}

func (s *stubTestimonialRepo) Create(ctx context.Context, t domain.Testimonial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[string]domain.Testimonial)
	}
	s.items[t.ID] = t
	return nil
}

func (s *stubTestimonialRepo) List(ctx context.Context) ([]domain.Testimonial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Testimonial, 0, len(s.items))
	for _, t := range s.items {
		out = append(out, t)
	}
	return out, nil
}

func (s *stubTestimonialRepo) Delete(ctx context.Context, id string) (domain.Testimonial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	if !ok {
		return domain.Testimonial{}, pgx.ErrNoRows
	}
	delete(s.items, id)
	return t, nil
}

type stubCurriculumRepo struct {
	mu    sync.Mutex
	items map[string]domain.Curriculum
}

func (s *stubCurriculumRepo) Create(ctx context.Context, c domain.Curriculum) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[string]domain.Curriculum)
	}
	s.items[c.ID] = c
	return nil
}

func (s *stubCurriculumRepo) List(ctx context.Context) ([]domain.Curriculum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Curriculum, 0, len(s.items))
	for _, c := range s.items {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubCurriculumRepo) Delete(ctx context.Context, id string) (domain.Curriculum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return domain.Curriculum{}, pgx.ErrNoRows
	}
	delete(s.items, id)
	return c, nil
}

type stubBlogRepo struct {
	mu    sync.Mutex
	items map[string]domain.Blog
}

func (s *stubBlogRepo) Create(ctx context.Context, b domain.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[string]domain.Blog)
	}
	s.items[b.ID] = b
	return nil
}

func (s *stubBlogRepo) List(ctx context.Context) ([]domain.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Blog, 0, len(s.items))
	for _, b := range s.items {
		out = append(out, b)
	}
	return out, nil
}

func (s *stubBlogRepo) Delete(ctx context.Context, id string) (domain.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.items[id]
	if !ok {
		return domain.Blog{}, pgx.ErrNoRows
	}
	delete(s.items, id)
	return b, nil
}

type stubBannerRepo struct {
	mu    sync.Mutex
	items map[string]domain.Banner
}

func (s *stubBannerRepo) Create(ctx context.Context, b domain.Banner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[string]domain.Banner)
	}
	s.items[b.ID] = b
	return nil
}

func (s *stubBannerRepo) List(ctx context.Context) ([]domain.Banner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Banner, 0, len(s.items))
	for _, b := range s.items {
		out = append(out, b)
	}
	return out, nil
}

func (s *stubBannerRepo) Delete(ctx context.Context, id string) (domain.Banner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.items[id]
	if !ok {
		return domain.Banner{}, pgx.ErrNoRows
	}
	delete(s.items, id)
	return b, nil
}

type stubProductRepo struct {
	mu    sync.Mutex
	items map[string]domain.Product
}

func (s *stubProductRepo) Create(ctx context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[string]domain.Product)
	}
	s.items[p.ID] = p
	return nil
}

func (s *stubProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProductRepo) Delete(ctx context.Context, id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return domain.Product{}, pgx.ErrNoRows
	}
	delete(s.items, id)
	return p, nil
}

type stubEmailSender struct {
	mu       sync.Mutex
	lastCode string
	err      error
}

func (s *stubEmailSender) SendPasswordResetOTP(ctx context.Context, toEmail, code string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.lastCode = code
	return nil
}

type stubSnapAPI struct {
	resp *snap.Response
	err  *midtrans.Error
}

func (s *stubSnapAPI) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type stubMediaStore struct {
	mu      sync.Mutex
	removed []string
}

func (s *stubMediaStore) RemoveByURL(ctx context.Context, rawURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, rawURL)
	return nil
}

var _ media.Store = (*stubMediaStore)(nil)

const testWebhookServerKey = "SB-Mid-server-testkey"

type testEnv struct {
	router    *gin.Engine
	jwtSvc    *service.JWTService
	users     *stubUserRepo
	otps      *stubOTPRepo
	courses   *stubCourseRepo
	purchases *stubPurchaseRepo
	orders    *stubOrderRepo
	sender    *stubEmailSender
	snapAPI   *stubSnapAPI
	mediaRM   *stubMediaStore
	banners   *stubBannerRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	users := newStubUserRepo()
	otps := newStubOTPRepo()
	courses := newStubCourseRepo()
	purchases := newStubPurchaseRepo(courses)
	orders := newStubOrderRepo()
	sender := &stubEmailSender{}
	snapAPI := &stubSnapAPI{resp: &snap.Response{Token: "tok", RedirectURL: "https://pay.example/tok"}}
	mediaRM := &stubMediaStore{}
	testimonials := &stubTestimonialRepo{}
	curricula := &stubCurriculumRepo{}
	blogs := &stubBlogRepo{}
	banners := &stubBannerRepo{}
	products := &stubProductRepo{}

	jwtSvc := service.NewJWTServiceWithStore("secret", 15*time.Minute, time.Hour, service.NewMemoryRefreshTokenStore())
	authSvc := service.NewAuthService(logger, users, otps, sender, nil, nil)
	enrollSvc := service.NewEnrollmentService(logger, users, courses, purchases)
	paySvc := service.NewPaymentService(logger, orders, courses, users, snapAPI, testWebhookServerKey, enrollSvc)

	authH := NewAuthHandler(logger, authSvc, jwtSvc)
	enrollH := NewEnrollmentHandler(logger, enrollSvc)
	catalogH := NewCatalogHandler(logger, courses, testimonials, curricula, blogs, banners, products)
	adminH := NewAdminHandler(logger, users, courses, testimonials, curricula, blogs, banners, products, mediaRM)
	payH := NewPaymentHandler(logger, paySvc)

	return &testEnv{
		router:    NewRouter(logger, jwtSvc, authH, enrollH, catalogH, adminH, payH),
		jwtSvc:    jwtSvc,
		users:     users,
		otps:      otps,
		courses:   courses,
		purchases: purchases,
		orders:    orders,
		sender:    sender,
		snapAPI:   snapAPI,
		mediaRM:   mediaRM,
		banners:   banners,
	}
}

func (e *testEnv) tokenFor(t *testing.T, user domain.User) string {
	t.Helper()
	pair, err := e.jwtSvc.GeneratePair(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return pair.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

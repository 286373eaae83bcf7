package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/imaging"
	"github.com/talkincode/storefront/internal/kvstore"
)

var testClock = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T, backend kvstore.Backend, opts ...Option) *Store {
	t.Helper()
	if backend == nil {
		backend = kvstore.NewMemoryBackend(kvstore.Quota{})
	}
	opts = append([]Option{WithClock(func() time.Time { return testClock })}, opts...)
	s := New(backend, opts...)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func persisted(t *testing.T, b kvstore.Backend, key string, v interface{}) {
	t.Helper()
	raw, ok, err := b.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get(%s) = ok %v, err %v", key, ok, err)
	}
	if err := json.UnmarshalFromString(raw, v); err != nil {
		t.Fatalf("decode %s: %v", key, err)
	}
}

func TestDefaultsBeforeLoad(t *testing.T) {
	s := New(kvstore.NewMemoryBackend(kvstore.Quota{}))
	if s.Mounted() {
		t.Error("store must not be mounted before Load")
	}
	if got := len(s.Products()); got != len(domain.DefaultProducts()) {
		t.Errorf("Expected %d default products, got %d", len(domain.DefaultProducts()), got)
	}
	if s.Locale() != domain.DefaultLocale {
		t.Errorf("Expected locale %s, got %s", domain.DefaultLocale, s.Locale())
	}
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !s.Mounted() {
		t.Error("Expected store to be mounted after Load")
	}
}

func TestAddProductIDs(t *testing.T) {
	s := newTestStore(t, nil)
	first := s.AddProduct(context.Background(), domain.Product{Name: domain.LocalizedText{En: "Orchid"}})
	second := s.AddProduct(context.Background(), domain.Product{Name: domain.LocalizedText{En: "Peony"}})
	if first.ID != 4 || second.ID != 5 {
		t.Errorf("Expected ids 4 and 5, got %d and %d", first.ID, second.ID)
	}
	if first.Images == nil || first.Colors == nil {
		t.Error("Expected empty image and color lists, got nil")
	}
	got, _ := s.Product(first.ID)
	data, err := json.MarshalToString(got)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(data, `"images":[]`) || !strings.Contains(data, `"colors":[]`) {
		t.Errorf("Expected empty lists to encode as [], got %s", data)
	}

	q := s.AddQuiz(domain.Quiz{Title: domain.LocalizedText{En: "Empty"}})
	quiz, _ := s.Quiz(q.ID)
	data, _ = json.MarshalToString(quiz)
	if !strings.Contains(data, `"questions":[]`) {
		t.Errorf("Expected questions to encode as [], got %s", data)
	}
}

type blockingCompressor struct {
	entered chan struct{}
	release chan struct{}
}

func (c *blockingCompressor) CompressAll(_ context.Context, images []string) []string {
	c.entered <- struct{}{}
	<-c.release
	return append([]string{}, images...)
}

func TestAddProductCommitsAgainstLatestSnapshot(t *testing.T) {
	backend := kvstore.NewMemoryBackend(kvstore.Quota{})
	c := &blockingCompressor{entered: make(chan struct{}), release: make(chan struct{})}
	s := newTestStore(t, backend, WithCompressor(c))

	done := make(chan domain.Product)
	go func() {
		done <- s.AddProduct(context.Background(), domain.Product{Name: domain.LocalizedText{En: "Lily"}})
	}()
	<-c.entered
	// ids 1,2,3 before; removals commit while the add is still compressing
	s.RemoveProduct(3)
	s.RemoveProduct(1)
	close(c.release)
	added := <-done

	if added.ID != 3 {
		t.Errorf("Expected id 3 from the current snapshot, got %d", added.ID)
	}
	if _, ok := s.Product(1); ok {
		t.Error("removed product 1 must stay removed")
	}
	ids := []int64{}
	for _, p := range s.Products() {
		ids = append(ids, p.ID)
	}
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 3 {
		t.Errorf("Expected products [2 3], got %v", ids)
	}
	var stored []domain.Product
	persisted(t, backend, domain.KeyProducts, &stored)
	if len(stored) != 2 || stored[0].ID != 2 || stored[1].ID != 3 || stored[1].Name.En != "Lily" {
		t.Errorf("persisted payload differs from snapshot: %+v", stored)
	}
}

func TestAddProductConcurrentIDsUnique(t *testing.T) {
	s := newTestStore(t, nil)
	const n = 50
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.AddProduct(context.Background(), domain.Product{}).ID
		}()
	}
	wg.Wait()
	close(ids)
	seen := map[int64]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate product id %d", id)
		}
		seen[id] = true
	}
	if got := len(s.Products()); got != n+3 {
		t.Errorf("Expected %d products, got %d", n+3, got)
	}
}

func TestStringIDsUnique(t *testing.T) {
	s := newTestStore(t, nil)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id := s.AddCategory(domain.Category{}).ID
		if id == "" || seen[id] {
			t.Fatalf("bad or duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestUpdateProductShallowMerge(t *testing.T) {
	s := newTestStore(t, nil)
	before, _ := s.Product(1)
	got, ok := s.UpdateProduct(context.Background(), 1, Patch{
		"price": 99.5,
		"name":  map[string]interface{}{"en": "Roses"},
		"id":    42,
	})
	if !ok {
		t.Fatal("Expected product 1 to be found")
	}
	if got.ID != 1 {
		t.Errorf("id must not be patched, got %d", got.ID)
	}
	if got.Price != 99.5 {
		t.Errorf("Expected price 99.5, got %v", got.Price)
	}
	if got.Name.En != "Roses" || got.Name.Ar != "" {
		t.Errorf("Expected name replaced as a whole, got %+v", got.Name)
	}
	if got.Description != before.Description || got.Category != before.Category {
		t.Error("fields absent from the patch must be kept")
	}
	var stored []domain.Product
	persisted(t, s.backend, domain.KeyProducts, &stored)
	if stored[0].Price != 99.5 {
		t.Errorf("Expected persisted price 99.5, got %v", stored[0].Price)
	}
}

func TestAbsentIDIsNoop(t *testing.T) {
	backend := kvstore.NewMemoryBackend(kvstore.Quota{})
	s := newTestStore(t, backend)
	writes := backend.Writes()
	if _, ok := s.UpdateProduct(context.Background(), 999, Patch{"price": 1}); ok {
		t.Error("Expected update of unknown product to report false")
	}
	if s.RemoveProduct(999) || s.RemoveCategory("nope") || s.RemoveReview("nope") ||
		s.RemoveGalleryImage("nope") || s.RemoveContactMessage("nope") || s.RemoveQuiz("nope") {
		t.Error("Expected removal of unknown ids to report false")
	}
	if s.MarkNotificationAsRead("nope") || s.ActivateQuiz("nope") || s.SetContactMessageStatus("nope", domain.MessageStatusRead) {
		t.Error("Expected unknown ids to report false")
	}
	if backend.Writes() != writes {
		t.Errorf("Expected no writes, got %d", backend.Writes()-writes)
	}
	if len(s.Products()) != 3 {
		t.Error("catalog must be unchanged")
	}
}

func TestRemoveProductKeepsOrder(t *testing.T) {
	s := newTestStore(t, nil)
	if !s.RemoveProduct(2) {
		t.Fatal("Expected product 2 to be removed")
	}
	got := s.Products()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("unexpected catalog %v", got)
	}
	if next := s.AddProduct(context.Background(), domain.Product{}); next.ID != 4 {
		t.Errorf("Expected id 4, got %d", next.ID)
	}
}

func TestGettersReturnCopies(t *testing.T) {
	s := newTestStore(t, nil)
	products := s.Products()
	products[0].Images[0] = "mutated"
	products[0].Name.En = "mutated"
	if p, _ := s.Product(1); p.Images[0] == "mutated" || p.Name.En == "mutated" {
		t.Error("mutating a returned product must not affect the store")
	}
	footer := s.FooterSettings()
	if len(footer.Links) > 0 {
		footer.Links[0].URL = "mutated"
		if s.FooterSettings().Links[0].URL == "mutated" {
			t.Error("mutating returned settings must not affect the store")
		}
	}
}

func bigInlineImage(n int) string {
	return "data:image/png;base64," + strings.Repeat("A", n)
}

func TestAddProductFallsBackToPlaceholder(t *testing.T) {
	backend := kvstore.NewMemoryBackend(kvstore.Quota{MaxValueBytes: 4096})
	s := newTestStore(t, backend)
	var failures []PersistFailure
	if err := s.Subscribe(TopicPersistFailed, func(f PersistFailure) { failures = append(failures, f) }); err != nil {
		t.Fatal(err)
	}

	p := s.AddProduct(context.Background(), domain.Product{Images: []string{bigInlineImage(8000)}})
	if len(p.Images) != 1 || p.Images[0] != imaging.Placeholder {
		t.Fatalf("Expected placeholder image, got %d bytes", len(strings.Join(p.Images, "")))
	}
	var stored []domain.Product
	persisted(t, backend, domain.KeyProducts, &stored)
	if len(stored) != 4 || stored[3].Images[0] != imaging.Placeholder {
		t.Error("Expected reduced payload to be persisted")
	}
	if mem, _ := s.Product(p.ID); mem.Images[0] != imaging.Placeholder {
		t.Error("published snapshot must equal the persisted payload")
	}
	if len(failures) != 0 {
		t.Errorf("reduced write succeeded, Expected no failure events, got %v", failures)
	}
	// other products keep their images
	if stored[0].Images[0] != domain.DefaultProducts()[0].Images[0] {
		t.Error("only the added product may lose its images")
	}
}

func TestAddProductBothWritesFail(t *testing.T) {
	backend := kvstore.NewMemoryBackend(kvstore.Quota{})
	s := newTestStore(t, backend)
	s.Persist(domain.KeyProducts)
	var failures []PersistFailure
	_ = s.Subscribe(TopicPersistFailed, func(f PersistFailure) { failures = append(failures, f) })

	backend.FailNext(2, nil)
	img := bigInlineImage(100)
	p := s.AddProduct(context.Background(), domain.Product{Images: []string{img}})
	if p.Images[0] != img {
		t.Error("Expected full value to stay in memory")
	}
	if len(s.Products()) != 4 {
		t.Error("Expected the product to be committed in memory")
	}
	if len(failures) != 1 || !failures[0].Reduced || failures[0].Key != domain.KeyProducts {
		t.Fatalf("Expected one reduced failure, got %+v", failures)
	}
	if !kvstore.IsQuotaExceeded(failures[0].Err) {
		t.Errorf("Expected quota error, got %v", failures[0].Err)
	}
	var stored []domain.Product
	persisted(t, backend, domain.KeyProducts, &stored)
	if len(stored) != 3 {
		t.Errorf("Expected previous payload to stay persisted, got %d products", len(stored))
	}
}

func TestUpdateProductImagesFallback(t *testing.T) {
	backend := kvstore.NewMemoryBackend(kvstore.Quota{MaxValueBytes: 4096})
	s := newTestStore(t, backend)
	got, ok := s.UpdateProduct(context.Background(), 2, Patch{"images": []string{bigInlineImage(8000)}})
	if !ok {
		t.Fatal("Expected product 2 to be found")
	}
	if got.Images[0] != imaging.Placeholder {
		t.Error("Expected placeholder image after oversized update")
	}
}

func TestPersistFailureKeepsMemory(t *testing.T) {
	backend := kvstore.NewMemoryBackend(kvstore.Quota{})
	s := newTestStore(t, backend)
	var failures []PersistFailure
	_ = s.Subscribe(TopicPersistFailed, func(f PersistFailure) { failures = append(failures, f) })

	backend.FailNext(1, kvstore.ErrInjected)
	c := s.AddCategory(domain.Category{Name: domain.LocalizedText{En: "Plants"}})
	if _, ok := s.Category(c.ID); !ok {
		t.Error("Expected category to stay in memory")
	}
	if len(failures) != 1 || failures[0].Reduced || failures[0].Key != domain.KeyCategories {
		t.Errorf("unexpected failures %+v", failures)
	}
}

func TestChangedEvents(t *testing.T) {
	s := newTestStore(t, nil)
	var keys []string
	fn := func(key string) { keys = append(keys, key) }
	if err := s.Subscribe(TopicChanged, fn); err != nil {
		t.Fatal(err)
	}
	s.AddReview(domain.Review{Name: "Omar", Rating: 4})
	s.AddContactMessage(domain.ContactMessage{Name: "Layla"})
	want := []string{domain.KeyReviews, domain.KeyContactMessages, domain.KeyNotifications, domain.KeyNotificationSources}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, keys)
	}
	_ = s.Unsubscribe(TopicChanged, fn)
	s.AddReview(domain.Review{})
	if len(keys) != len(want) {
		t.Error("unsubscribed handler must not run")
	}
}

func TestQuizMutualExclusion(t *testing.T) {
	s := newTestStore(t, nil)
	a := s.AddQuiz(domain.Quiz{Title: domain.LocalizedText{En: "A"}, IsActive: true})
	b := s.AddQuiz(domain.Quiz{Title: domain.LocalizedText{En: "B"}})
	c := s.AddQuiz(domain.Quiz{Title: domain.LocalizedText{En: "C"}, IsActive: true})

	countActive := func() int {
		n := 0
		for _, q := range s.Quizzes() {
			if q.IsActive {
				n++
			}
		}
		return n
	}
	if countActive() != 1 {
		t.Fatalf("Expected exactly one active quiz, got %d", countActive())
	}
	if q, ok := s.ActiveQuiz(); !ok || q.ID != c.ID {
		t.Errorf("Expected %s active, got %s", c.ID, q.ID)
	}
	s.ActivateQuiz(b.ID)
	if q, _ := s.ActiveQuiz(); q.ID != b.ID || countActive() != 1 {
		t.Error("Expected only b to be active")
	}
	s.UpdateQuiz(a.ID, Patch{"isActive": true})
	if q, _ := s.ActiveQuiz(); q.ID != a.ID || countActive() != 1 {
		t.Error("Expected only a to be active after patch")
	}
	s.DeactivateQuiz(a.ID)
	if _, ok := s.ActiveQuiz(); ok || countActive() != 0 {
		t.Error("Expected no active quiz")
	}
	s.ActivateQuiz(c.ID)
	s.RemoveQuiz(c.ID)
	if _, ok := s.ActiveQuiz(); ok {
		t.Error("removing the active quiz must clear the active reference")
	}
}

func TestAddQuizAssignsIDs(t *testing.T) {
	s := newTestStore(t, nil)
	q := s.AddQuiz(domain.Quiz{Questions: []domain.QuizQuestion{{}, {ID: "keep"}}})
	if q.CreatedAt != testClock.UnixMilli() {
		t.Errorf("Expected createdAt %d, got %d", testClock.UnixMilli(), q.CreatedAt)
	}
	if q.Questions[0].ID == "" || q.Questions[1].ID != "keep" {
		t.Errorf("unexpected question ids %q, %q", q.Questions[0].ID, q.Questions[1].ID)
	}
	updated, _ := s.UpdateQuiz(q.ID, Patch{"createdAt": 1, "title": map[string]string{"en": "New"}})
	if updated.CreatedAt != q.CreatedAt || updated.Title.En != "New" {
		t.Errorf("unexpected update %+v", updated)
	}
}

func TestContactMessageNotification(t *testing.T) {
	s := newTestStore(t, nil)
	s.SetLocale("en-US")
	m := s.AddContactMessage(domain.ContactMessage{Name: "Layla", Contact: "layla@example.com", Message: "Hello"})
	if m.Status != domain.MessageStatusNew {
		t.Errorf("Expected status new, got %s", m.Status)
	}
	if m.Date != testClock.Format(time.RFC3339) {
		t.Errorf("unexpected date %s", m.Date)
	}
	ns := s.Notifications()
	if len(ns) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(ns))
	}
	n := ns[0]
	if n.SourceID != m.ID || n.Type != domain.NotificationTypeMessage || n.Read {
		t.Errorf("unexpected notification %+v", n)
	}
	if n.Message != "New message from Layla" {
		t.Errorf("unexpected summary %q", n.Message)
	}
	if want := testClock.In(time.Local).Format("2006-01-02 15:04"); n.Time != want {
		t.Errorf("Expected time %s, got %s", want, n.Time)
	}
	if s.UnreadNotificationCount() != 1 {
		t.Error("Expected one unread notification")
	}
}

func TestNotificationDerivationIdempotent(t *testing.T) {
	backend := kvstore.NewMemoryBackend(kvstore.Quota{})
	s := newTestStore(t, backend)
	s.AddContactMessage(domain.ContactMessage{Name: "A"})
	s.AddQuizResult(domain.QuizResult{Score: 2, Total: 3})
	if got := len(s.Notifications()); got != 2 {
		t.Fatalf("Expected 2 notifications, got %d", got)
	}
	if n := s.ReconcileNotifications(); n != 0 {
		t.Errorf("Expected no new notifications, got %d", n)
	}
	s.UpdateReview("review-1", Patch{"rating": 4})
	if got := len(s.Notifications()); got != 2 {
		t.Errorf("Expected 2 notifications, got %d", got)
	}

	reloaded := newTestStore(t, backend)
	if n := reloaded.ReconcileNotifications(); n != 0 {
		t.Errorf("Expected no notifications after reload, got %d", n)
	}
	reloaded.ClearNotifications()
	if n := reloaded.ReconcileNotifications(); n != 0 {
		t.Errorf("cleared notifications must not be derived again, got %d", n)
	}
}

func TestNotificationOrderAndTruncation(t *testing.T) {
	s := newTestStore(t, nil, WithMaxNotifications(2))
	s.AddContactMessage(domain.ContactMessage{Name: "first"})
	s.AddContactMessage(domain.ContactMessage{Name: "second"})
	third := s.AddContactMessage(domain.ContactMessage{Name: "third"})
	ns := s.Notifications()
	if len(ns) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(ns))
	}
	if ns[0].SourceID != third.ID {
		t.Error("Expected newest notification first")
	}
	if n := s.ReconcileNotifications(); n != 0 {
		t.Errorf("truncated sources must not be re-derived, got %d", n)
	}
	msgs := s.ContactMessages()
	if msgs[0].ID != third.ID {
		t.Error("Expected newest message first")
	}
}

func TestQuizResultNotificationText(t *testing.T) {
	s := newTestStore(t, nil)
	r := s.AddQuizResult(domain.QuizResult{Score: 7, Total: 10})
	n := s.Notifications()[0]
	if n.Type != domain.NotificationTypeQuiz || n.SourceID != r.ID {
		t.Errorf("unexpected notification %+v", n)
	}
	if !strings.Contains(n.Message, "7/10") {
		t.Errorf("Expected score in summary, got %q", n.Message)
	}
}

func TestReadMessagesAreNotNotified(t *testing.T) {
	s := newTestStore(t, nil)
	s.ClearNotifications()
	m := s.AddContactMessage(domain.ContactMessage{Name: "A"})
	if !s.SetContactMessageStatus(m.ID, domain.MessageStatusReplied) {
		t.Fatal("Expected status change to succeed")
	}
	if s.SetContactMessageStatus(m.ID, "archived") {
		t.Error("Expected unknown status to be rejected")
	}
	got, _ := s.ContactMessage(m.ID)
	if got.Status != domain.MessageStatusReplied {
		t.Errorf("Expected status replied, got %s", got.Status)
	}
	if s.UnreadMessageCount() != 0 {
		t.Error("Expected no unread messages")
	}
}

func TestMarkNotifications(t *testing.T) {
	s := newTestStore(t, nil)
	s.AddContactMessage(domain.ContactMessage{Name: "A"})
	s.AddContactMessage(domain.ContactMessage{Name: "B"})
	first := s.Notifications()[0]
	if !s.MarkNotificationAsRead(first.ID) {
		t.Fatal("Expected notification to be found")
	}
	if s.UnreadNotificationCount() != 1 {
		t.Errorf("Expected 1 unread, got %d", s.UnreadNotificationCount())
	}
	s.MarkAllNotificationsAsRead()
	if s.UnreadNotificationCount() != 0 {
		t.Error("Expected all notifications read")
	}
}

func TestQuizResultStats(t *testing.T) {
	s := newTestStore(t, nil)
	if got := s.QuizResultStats(""); got.Count != 0 {
		t.Errorf("Expected empty stats, got %+v", got)
	}
	s.AddQuizResult(domain.QuizResult{QuizID: "q1", Score: 1, Total: 2})
	s.AddQuizResult(domain.QuizResult{QuizID: "q1", Score: 2, Total: 2})
	s.AddQuizResult(domain.QuizResult{QuizID: "q2", Score: 0, Total: 4})
	got := s.QuizResultStats("q1")
	if got.Count != 2 || got.Mean != 75 || got.Best != 100 || got.Worst != 50 {
		t.Errorf("unexpected stats %+v", got)
	}
	if all := s.QuizResultStats(""); all.Count != 3 || all.Median != 50 {
		t.Errorf("unexpected overall stats %+v", all)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	backend := kvstore.NewMemoryBackend(kvstore.Quota{})
	s := newTestStore(t, backend)
	defaults := domain.DefaultStoreSettings()
	got := s.UpdateStoreSettings(Patch{"phone": "+971500000000"})
	if got.Phone != "+971500000000" || got.StoreName != defaults.StoreName {
		t.Errorf("unexpected merge result %+v", got)
	}
	s.UpdateSectionNames(Patch{"quiz": map[string]string{"en": "Trivia", "ar": "مسابقة"}})
	s.UpdateAdminTranslations(map[string]domain.LocalizedText{"save": {En: "Save", Ar: "حفظ"}})
	s.SetLocale("en")

	reloaded := newTestStore(t, backend)
	if reloaded.StoreSettings().Phone != "+971500000000" {
		t.Error("Expected phone to survive reload")
	}
	if reloaded.StoreSettings().StoreName != defaults.StoreName {
		t.Error("Expected untouched fields to keep defaults")
	}
	if reloaded.SectionNames().Quiz.En != "Trivia" {
		t.Error("Expected section name to survive reload")
	}
	if reloaded.AdminTranslations()["save"].Ar != "حفظ" {
		t.Error("Expected translation override to survive reload")
	}
	if reloaded.Locale() != "en" || reloaded.IsRTL() {
		t.Errorf("Expected en locale, got %s", reloaded.Locale())
	}
}

func TestSettingsBadPatchIgnored(t *testing.T) {
	s := newTestStore(t, nil)
	before := s.StoreSettings()
	got := s.UpdateStoreSettings(Patch{"deliveryFee": "free"})
	if got.DeliveryFee != before.DeliveryFee {
		t.Errorf("Expected delivery fee unchanged, got %v", got.DeliveryFee)
	}
}

func TestLoadResilience(t *testing.T) {
	backend := kvstore.NewMemoryBackend(kvstore.Quota{})
	_ = backend.Set(domain.KeyProducts, "not json")
	_ = backend.Set(domain.KeyReviews, `[{"id":"r9","name":"Sara","rating":5}]`)
	_ = backend.Set(domain.KeyStoreSettings, `{"phone":"123"}`)
	_ = backend.Set(domain.KeyLocale, "en")
	_ = backend.Set(domain.KeyQuizzes, `[{"id":"a","isActive":true},{"id":"b","isActive":true}]`)

	s := newTestStore(t, backend)
	if len(s.Products()) != len(domain.DefaultProducts()) {
		t.Error("malformed products must fall back to defaults")
	}
	if r := s.Reviews(); len(r) != 1 || r[0].ID != "r9" {
		t.Errorf("Expected persisted reviews, got %v", r)
	}
	st := s.StoreSettings()
	if st.Phone != "123" || st.Currency != domain.DefaultStoreSettings().Currency {
		t.Errorf("Expected persisted settings merged over defaults, got %+v", st)
	}
	if s.Locale() != "en" {
		t.Errorf("Expected bare locale tag to load, got %s", s.Locale())
	}
	if q, ok := s.ActiveQuiz(); !ok || q.ID != "a" {
		t.Error("Expected the first active quiz to win")
	}
	if q, _ := s.Quiz("b"); q.IsActive {
		t.Error("Expected the second active quiz to be cleared")
	}
	raw, _, _ := backend.Get(domain.KeySchemaVersion)
	if raw != "1" {
		t.Errorf("Expected schema version written, got %q", raw)
	}
}

func TestLoadNewerSchemaKeepsDefaults(t *testing.T) {
	backend := kvstore.NewMemoryBackend(kvstore.Quota{})
	_ = backend.Set(domain.KeySchemaVersion, "99")
	_ = backend.Set(domain.KeyProducts, `[]`)
	s := newTestStore(t, backend)
	if len(s.Products()) != len(domain.DefaultProducts()) {
		t.Error("Expected defaults when persisted schema is newer")
	}
	if raw, _, _ := backend.Get(domain.KeySchemaVersion); raw != "99" {
		t.Error("newer schema version must not be overwritten")
	}
}

func TestLoadNewerSchemaDisablesWrites(t *testing.T) {
	backend := kvstore.NewMemoryBackend(kvstore.Quota{})
	const future = `[{"id":"future","name":{"en":"Future","ar":""},"description":{"en":"","ar":""}}]`
	_ = backend.Set(domain.KeySchemaVersion, "99")
	_ = backend.Set(domain.KeyCategories, future)
	s := newTestStore(t, backend)
	if !s.ReadOnly() {
		t.Fatal("Expected store to be read-only over a newer schema")
	}
	var failures []PersistFailure
	_ = s.Subscribe(TopicPersistFailed, func(f PersistFailure) { failures = append(failures, f) })

	c := s.AddCategory(domain.Category{Name: domain.LocalizedText{En: "Tulips"}})
	s.AddProduct(context.Background(), domain.Product{Images: []string{bigInlineImage(10)}})

	if raw, _, _ := backend.Get(domain.KeyCategories); raw != future {
		t.Errorf("newer categories were overwritten: %s", raw)
	}
	if _, ok, _ := backend.Get(domain.KeyProducts); ok {
		t.Error("products must not be written in read-only mode")
	}
	if _, ok := s.Category(c.ID); !ok {
		t.Error("Expected the category to be kept in memory")
	}
	if len(failures) != 2 {
		t.Fatalf("Expected two failures, got %+v", failures)
	}
	for _, f := range failures {
		if !errors.Is(f.Err, ErrReadOnly) || f.Reduced {
			t.Errorf("Expected unreduced ErrReadOnly failure, got %+v", f)
		}
	}
}

func TestUpdateCategoryPatchKeyCase(t *testing.T) {
	s := newTestStore(t, nil)
	c := s.AddCategory(domain.Category{Name: domain.LocalizedText{En: "A"}})
	got, ok := s.UpdateCategory(c.ID, Patch{"Name": map[string]string{"en": "B"}})
	if !ok || got.Name.En != "B" {
		t.Errorf("Expected name B, got %+v", got.Name)
	}
}

func TestReset(t *testing.T) {
	backend := kvstore.NewMemoryBackend(kvstore.Quota{})
	s := newTestStore(t, backend)
	s.AddContactMessage(domain.ContactMessage{Name: "A"})
	s.RemoveProduct(1)
	s.Reset()
	if len(s.ContactMessages()) != 0 || len(s.Notifications()) != 0 || len(s.Products()) != 3 {
		t.Error("Expected defaults after Reset")
	}
	var msgs []domain.ContactMessage
	persisted(t, backend, domain.KeyContactMessages, &msgs)
	if len(msgs) != 0 {
		t.Error("Expected reset state to be persisted")
	}
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestUseAfterClosePanics(t *testing.T) {
	s := newTestStore(t, nil)
	s.Close()
	expectPanic(t, "Products", func() { s.Products() })
	expectPanic(t, "AddProduct", func() { s.AddProduct(context.Background(), domain.Product{}) })
	expectPanic(t, "Load", func() { _ = s.Load(context.Background()) })
}

func TestContext(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := NewContext(context.Background(), s)
	if got := MustFromContext(ctx); got != s {
		t.Error("Expected the wired store")
	}
	if _, ok := FromContext(context.Background()); ok {
		t.Error("Expected no store in a bare context")
	}
	expectPanic(t, "MustFromContext", func() { MustFromContext(context.Background()) })
}

type countingCompressor struct {
	mu    sync.Mutex
	calls int
}

func (c *countingCompressor) CompressAll(_ context.Context, images []string) []string {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	out := make([]string, len(images))
	for i, img := range images {
		if imaging.IsInline(img) {
			img = "data:image/jpeg;base64,small"
		}
		out[i] = img
	}
	return out
}

func TestCompressorApplied(t *testing.T) {
	c := &countingCompressor{}
	s := newTestStore(t, nil, WithCompressor(c))
	p := s.AddProduct(context.Background(), domain.Product{Images: []string{"/a.jpg", bigInlineImage(10)}})
	if p.Images[0] != "/a.jpg" || p.Images[1] != "data:image/jpeg;base64,small" {
		t.Errorf("unexpected images %v", p.Images)
	}
	s.UpdateProduct(context.Background(), p.ID, Patch{"price": 3})
	if c.calls != 1 {
		t.Errorf("Expected compression only when images change, got %d calls", c.calls)
	}
}

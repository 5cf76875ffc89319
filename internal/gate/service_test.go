package gate

import (
	"context"
	"errors"
	"testing"

	"courses-bot/internal/store"
	"courses-bot/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeUserRepo хранит пользователей в памяти
type fakeUserRepo struct {
	users map[int64]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int64]*models.User)}
	for _, u := range users {
		repo.users[u.TelegramID] = u
	}
	return repo
}

func (r *fakeUserRepo) Upsert(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if u, ok := r.users[req.TelegramID]; ok {
		return u, nil
	}
	u := &models.User{TelegramID: req.TelegramID, FirstName: req.FirstName}
	r.users[req.TelegramID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	u, ok := r.users[telegramID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) SetBlocked(ctx context.Context, telegramID int64, blocked bool) error {
	if u, ok := r.users[telegramID]; ok {
		u.Blocked = blocked
	}
	return nil
}

func (r *fakeUserRepo) SetExempt(ctx context.Context, telegramID int64, exempt bool) error {
	if u, ok := r.users[telegramID]; ok {
		u.Exempt = exempt
	}
	return nil
}

func (r *fakeUserRepo) SetReferrer(ctx context.Context, telegramID, referrerID int64) error {
	u, ok := r.users[telegramID]
	if !ok {
		return store.ErrUserNotFound
	}
	// Первый пригласивший фиксируется навсегда
	if u.ReferrerID == nil && telegramID != referrerID {
		id := referrerID
		u.ReferrerID = &id
	}
	return nil
}

func (r *fakeUserRepo) MarkSubscribed(ctx context.Context, telegramID int64) error {
	if u, ok := r.users[telegramID]; ok {
		u.IsSubscribed = true
	}
	return nil
}

func (r *fakeUserRepo) CreditReferral(ctx context.Context, referredID, referrerID int64) (bool, error) {
	referred, ok := r.users[referredID]
	if !ok {
		return false, store.ErrUserNotFound
	}
	if referred.InviteRewarded {
		return false, nil
	}
	referred.InviteRewarded = true
	if referrer, ok := r.users[referrerID]; ok {
		referrer.InvitesCount++
	}
	return true, nil
}

func (r *fakeUserRepo) GetAllTelegramIDs(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int, error) {
	return len(r.users), nil
}

// fakeSettings хранит настройки в памяти
type fakeSettings struct {
	values map[string]string
}

func (s *fakeSettings) Get(ctx context.Context, key, def string) (string, error) {
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return def, nil
}

func (s *fakeSettings) Set(ctx context.Context, key, value string) error {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}

// fakeOracle отвечает фиксированным результатом проверки подписки
type fakeOracle struct {
	member bool
	err    error
}

func (o *fakeOracle) IsMember(ctx context.Context, telegramID int64) (bool, error) {
	return o.member, o.err
}

// fakeNotifier запоминает уведомления
type fakeNotifier struct {
	credited        []int64
	congratulations []int64
}

func (n *fakeNotifier) ReferralCredited(referrerID, referredID int64, totalInvites int) {
	n.credited = append(n.credited, referrerID)
}

func (n *fakeNotifier) CongratulateReferrer(referrerID int64) {
	n.congratulations = append(n.congratulations, referrerID)
}

func newTestService(users *fakeUserRepo, settings *fakeSettings, oracle *fakeOracle, notifier *fakeNotifier) *Service {
	return NewService(users, settings, oracle, notifier, "courses_test_bot", 5, zap.NewNop())
}

func TestEvaluateAccessBlocked(t *testing.T) {
	user := &models.User{TelegramID: 100, Blocked: true}
	svc := newTestService(newFakeUserRepo(user), &fakeSettings{}, &fakeOracle{member: true}, &fakeNotifier{})

	decision, err := svc.EvaluateAccess(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, OutcomeBlocked, decision.Outcome)
	// Подписка заблокированного не фиксируется
	assert.False(t, user.IsSubscribed)
}

func TestEvaluateAccessSubscription(t *testing.T) {
	tests := []struct {
		name    string
		oracle  *fakeOracle
		outcome Outcome
	}{
		{
			name:    "не подписан",
			oracle:  &fakeOracle{member: false},
			outcome: OutcomeSubscribeRequired,
		},
		{
			name:    "ошибка проверки трактуется как отсутствие подписки",
			oracle:  &fakeOracle{err: errors.New("telegram недоступен")},
			outcome: OutcomeSubscribeRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{TelegramID: 100}
			svc := newTestService(newFakeUserRepo(user), &fakeSettings{}, tt.oracle, &fakeNotifier{})

			decision, err := svc.EvaluateAccess(context.Background(), user)

			require.NoError(t, err)
			assert.Equal(t, tt.outcome, decision.Outcome)
		})
	}
}

func TestEvaluateAccessInvitesRequired(t *testing.T) {
	user := &models.User{TelegramID: 100, IsSubscribed: true, InvitesCount: 3}
	svc := newTestService(newFakeUserRepo(user), &fakeSettings{}, &fakeOracle{member: true}, &fakeNotifier{})

	decision, err := svc.EvaluateAccess(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, OutcomeInvitesRequired, decision.Outcome)
	assert.Equal(t, 3, decision.InvitesCount)
	assert.Equal(t, "https://t.me/courses_test_bot?start=ref_100", decision.InviteLink)
}

func TestEvaluateAccessEligible(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.User
		settings *fakeSettings
	}{
		{
			name: "набран порог приглашений",
			user: &models.User{TelegramID: 100, IsSubscribed: true, InvitesCount: 5},
		},
		{
			name: "освобожден от приглашений",
			user: &models.User{TelegramID: 100, IsSubscribed: true, Exempt: true},
		},
		{
			name:     "система приглашений выключена",
			user:     &models.User{TelegramID: 100, IsSubscribed: true},
			settings: &fakeSettings{values: map[string]string{models.SettingInviteSystemEnabled: "false"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := tt.settings
			if settings == nil {
				settings = &fakeSettings{}
			}
			svc := newTestService(newFakeUserRepo(tt.user), settings, &fakeOracle{member: true}, &fakeNotifier{})

			decision, err := svc.EvaluateAccess(context.Background(), tt.user)

			require.NoError(t, err)
			assert.Equal(t, OutcomeEligible, decision.Outcome)
		})
	}
}

func TestFirstSubscriptionCreditsReferrer(t *testing.T) {
	referrerID := int64(200)
	referrer := &models.User{TelegramID: referrerID, IsSubscribed: true, InvitesCount: 2}
	referred := &models.User{TelegramID: 100, ReferrerID: &referrerID}
	repo := newFakeUserRepo(referrer, referred)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakeSettings{}, &fakeOracle{member: true}, notifier)

	decision, err := svc.EvaluateAccess(context.Background(), referred)

	require.NoError(t, err)
	assert.Equal(t, OutcomeInvitesRequired, decision.Outcome)
	assert.True(t, referred.IsSubscribed)
	assert.True(t, referred.InviteRewarded)
	assert.Equal(t, 3, referrer.InvitesCount)
	assert.Equal(t, []int64{referrerID}, notifier.credited)
	// Порог не достигнут, поздравления нет
	assert.Empty(t, notifier.congratulations)

	// Повторная оценка ничего не зачисляет второй раз
	_, err = svc.EvaluateAccess(context.Background(), referred)
	require.NoError(t, err)
	assert.Equal(t, 3, referrer.InvitesCount)
	assert.Len(t, notifier.credited, 1)
}

func TestFifthInviteCongratulatesOnce(t *testing.T) {
	referrerID := int64(200)
	referrer := &models.User{TelegramID: referrerID, IsSubscribed: true, InvitesCount: 4}
	referred := &models.User{TelegramID: 100, ReferrerID: &referrerID}
	repo := newFakeUserRepo(referrer, referred)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakeSettings{}, &fakeOracle{member: true}, notifier)

	_, err := svc.EvaluateAccess(context.Background(), referred)

	require.NoError(t, err)
	assert.Equal(t, 5, referrer.InvitesCount)
	assert.Equal(t, []int64{referrerID}, notifier.congratulations)

	// Пригласивший теперь проходит проверку
	decision, err := svc.EvaluateAccess(context.Background(), referrer)
	require.NoError(t, err)
	assert.Equal(t, OutcomeEligible, decision.Outcome)
	assert.Len(t, notifier.congratulations, 1)
}

func TestCreditSkipsMissingAndBlockedReferrer(t *testing.T) {
	tests := []struct {
		name     string
		referrer *models.User
	}{
		{
			name: "пригласивший не найден",
		},
		{
			name:     "пригласивший заблокирован",
			referrer: &models.User{TelegramID: 200, Blocked: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			referrerID := int64(200)
			referred := &models.User{TelegramID: 100, ReferrerID: &referrerID}
			users := []*models.User{referred}
			if tt.referrer != nil {
				users = append(users, tt.referrer)
			}
			notifier := &fakeNotifier{}
			svc := newTestService(newFakeUserRepo(users...), &fakeSettings{}, &fakeOracle{member: true}, notifier)

			_, err := svc.EvaluateAccess(context.Background(), referred)

			require.NoError(t, err)
			assert.True(t, referred.IsSubscribed)
			assert.False(t, referred.InviteRewarded)
			assert.Empty(t, notifier.credited)
		})
	}
}

func TestRegisterReferrer(t *testing.T) {
	user := &models.User{TelegramID: 100}
	repo := newFakeUserRepo(user)
	svc := newTestService(repo, &fakeSettings{}, &fakeOracle{member: true}, &fakeNotifier{})
	ctx := context.Background()

	// Самоприглашение игнорируется
	require.NoError(t, svc.RegisterReferrer(ctx, 100, 100))
	assert.Nil(t, user.ReferrerID)

	// Первая регистрация фиксируется
	require.NoError(t, svc.RegisterReferrer(ctx, 100, 200))
	require.NotNil(t, user.ReferrerID)
	assert.Equal(t, int64(200), *user.ReferrerID)

	// Повторная регистрация не перезаписывает
	require.NoError(t, svc.RegisterReferrer(ctx, 100, 300))
	assert.Equal(t, int64(200), *user.ReferrerID)
}

func TestParseReferralPayload(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		expectedID int64
		expectedOK bool
	}{
		{name: "валидная нагрузка", payload: "ref_12345", expectedID: 12345, expectedOK: true},
		{name: "пустая нагрузка", payload: "", expectedOK: false},
		{name: "без префикса", payload: "12345", expectedOK: false},
		{name: "не число", payload: "ref_abc", expectedOK: false},
		{name: "только префикс", payload: "ref_", expectedOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ParseReferralPayload(tt.payload)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedID, id)
		})
	}
}

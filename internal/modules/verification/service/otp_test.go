package verification

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/user/repository"
	verificationRepo "anoa.com/recipemarket/internal/modules/verification/repository"
	"anoa.com/recipemarket/internal/testutil"
	"anoa.com/recipemarket/pkg/apperror"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var codePattern = regexp.MustCompile(`\b[1-9][0-9]{5}\b`)

type otpFixture struct {
	db   *gorm.DB
	mail *testutil.MemoryMailer
	svc  *otpService
	now  time.Time
}

func newOTPFixture(t *testing.T, rdb *redis.Client, limit time.Duration) *otpFixture {
	db := testutil.NewDB(t)
	f := &otpFixture{db: db, mail: &testutil.MemoryMailer{}, now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	f.svc = NewOTPService(verificationRepo.NewOTPRepository(db), repository.NewUserRepository(db), f.mail, rdb, limit).(*otpService)
	f.svc.now = func() time.Time { return f.now }
	return f
}

// sentCode extracts the code from the last mail.
func (f *otpFixture) sentCode(t *testing.T) string {
	t.Helper()
	msg, ok := f.mail.Last()
	require.True(t, ok, "no email sent")
	code := codePattern.FindString(msg.Body)
	require.NotEmpty(t, code, msg.Body)
	return code
}

func (f *otpFixture) isVerified(t *testing.T, email string) bool {
	t.Helper()
	var user entity.User
	require.NoError(t, f.db.First(&user, "email = ?", email).Error)
	return user.IsVerified
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[1-9][0-9]{5}$`, code)
	}
}

func TestOTP_GenerateAndVerify(t *testing.T) {
	f := newOTPFixture(t, nil, 0)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "anna")

	require.NoError(t, f.svc.Generate(ctx, " Anna@Example.com "))

	msg, _ := f.mail.Last()
	assert.Equal(t, "anna@example.com", msg.To)
	assert.Equal(t, "Your OTP Code", msg.Subject)
	assert.Contains(t, msg.Body, "10 minutes")

	var stored entity.EmailOTP
	require.NoError(t, f.db.First(&stored, "email = ?", "anna@example.com").Error)
	assert.True(t, stored.ExpiresAt.Equal(f.now.Add(OTPTTL)))

	check, err := f.svc.CheckVerification(ctx, "anna@example.com")
	require.NoError(t, err)
	assert.False(t, check.IsVerified)

	require.NoError(t, f.svc.Verify(ctx, "anna@example.com", f.sentCode(t)))
	assert.True(t, f.isVerified(t, "anna@example.com"))

	var left int64
	require.NoError(t, f.db.Model(&entity.EmailOTP{}).Count(&left).Error)
	assert.Zero(t, left, "a used code is deleted")

	check, err = f.svc.CheckVerification(ctx, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", check.Email)
	assert.True(t, check.IsVerified)
}

func TestOTP_RegenerateReplacesCode(t *testing.T) {
	f := newOTPFixture(t, nil, 0)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "anna")

	require.NoError(t, f.svc.Generate(ctx, "anna@example.com"))
	first := f.sentCode(t)

	var second string
	for second == "" || second == first {
		require.NoError(t, f.svc.Generate(ctx, "anna@example.com"))
		second = f.sentCode(t)
	}

	var rows int64
	require.NoError(t, f.db.Model(&entity.EmailOTP{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	assert.ErrorIs(t, f.svc.Verify(ctx, "anna@example.com", first), apperror.ErrValidation)
	require.NoError(t, f.svc.Verify(ctx, "anna@example.com", second))
}

func TestOTP_VerifyErrors(t *testing.T) {
	f := newOTPFixture(t, nil, 0)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "anna")

	err := f.svc.Verify(ctx, "anna@example.com", "123456")
	assert.ErrorIs(t, err, apperror.ErrValidation, "no code generated yet")

	require.NoError(t, f.svc.Generate(ctx, "anna@example.com"))
	code := f.sentCode(t)

	wrong := "100000"
	if code == wrong {
		wrong = "100001"
	}
	assert.ErrorIs(t, f.svc.Verify(ctx, "anna@example.com", wrong), apperror.ErrValidation)

	f.now = f.now.Add(OTPTTL + time.Second)
	err = f.svc.Verify(ctx, "anna@example.com", code)
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, err.Error(), "expired")
	assert.False(t, f.isVerified(t, "anna@example.com"))
}

func TestOTP_UnknownEmail(t *testing.T) {
	f := newOTPFixture(t, nil, 0)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Generate(ctx, "ghost@example.com"), apperror.ErrNotFound)
	assert.Empty(t, f.mail.Sent)

	_, err := f.svc.CheckVerification(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.CheckVerification(ctx, "  ")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestOTP_ConsumeRequiresUser(t *testing.T) {
	f := newOTPFixture(t, nil, 0)
	ctx := context.Background()

	require.NoError(t, f.db.Create(&entity.EmailOTP{Email: "ghost@example.com", Code: "654321", ExpiresAt: f.now.Add(time.Minute)}).Error)

	assert.ErrorIs(t, f.svc.Verify(ctx, "ghost@example.com", "654321"), apperror.ErrNotFound)

	var rows int64
	require.NoError(t, f.db.Model(&entity.EmailOTP{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows, "the delete is rolled back")
}

func TestOTP_RateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := newOTPFixture(t, rdb, time.Minute)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "anna")

	require.NoError(t, f.svc.Generate(ctx, "anna@example.com"))
	assert.ErrorIs(t, f.svc.Generate(ctx, "anna@example.com"), apperror.ErrRateLimitExceeded)

	mr.FastForward(time.Minute + time.Second)
	require.NoError(t, f.svc.Generate(ctx, "anna@example.com"))
	assert.Len(t, f.mail.Sent, 2)
}

func TestOTP_MailFailureClearsRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := newOTPFixture(t, rdb, time.Minute)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "anna")

	f.mail.FailNext = errors.New("smtp: connection refused")
	err := f.svc.Generate(ctx, "anna@example.com")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))

	require.NoError(t, f.svc.Generate(ctx, "anna@example.com"), "the failed attempt does not count")
}

package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// ハッシュと平文の照合。
type PasswordVerifier interface {
	Verify(hash string, plain string) error
}

// アクセストークン発行の約束。実装はmainが注入する。
type TokenIssuer interface {
	Issue(userID int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(hash string, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

type AuthUsecase struct {
	userRepo repo.UserRepository
	hasher   PasswordHasher
	verifier PasswordVerifier
	issuer   TokenIssuer
	clock    Clock
}

// DI
func NewAuthUsecase(
	userRepo repo.UserRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type TokenOutput struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthOutput struct {
	User  model.User  `json:"user"`
	Token TokenOutput `json:"token"`
}

// 会員登録。初期ロールはcustomer。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (AuthOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return AuthOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "name required")
	}
	email := strings.TrimSpace(in.Email)
	if !isValidEmailFormat(email) {
		return AuthOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "invalid email")
	}
	if len(in.Password) < 8 {
		return AuthOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "password must be at least 8 characters")
	}

	// email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return AuthOutput{}, NewAppError(http.StatusConflict, CodeConflict, "email already registered")
	}
	if err != nil && !errors.Is(err, repo.ErrUserNotFound) {
		return AuthOutput{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return AuthOutput{}, NewAppError(http.StatusInternalServerError, CodeInternal, "hash error")
	}

	now := u.clock.Now()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed, // 平文は保存しない
		Role:         model.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		// uniqueインデックス競合は409に落とす
		return AuthOutput{}, NewAppError(http.StatusConflict, CodeConflict, "email already registered")
	}

	return u.buildAuthOutput(*user, now)
}

type LoginInput struct {
	Email    string
	Password string
}

// ログイン。失敗理由は呼び出し元に見せない（401固定）。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthOutput, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return AuthOutput{}, NewAppError(http.StatusBadRequest, CodeValidation, "email and password required")
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrUserNotFound) {
		return AuthOutput{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return AuthOutput{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if !user.IsActive {
		return AuthOutput{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "invalid credentials")
	}

	if err := u.verifier.Verify(user.PasswordHash, in.Password); err != nil {
		return AuthOutput{}, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "invalid credentials")
	}

	now := u.clock.Now()
	if err := u.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return AuthOutput{}, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return u.buildAuthOutput(*user, now)
}

// 有効なアクセストークンで呼ばれた前提で、新しいトークンを発行する。
func (u *AuthUsecase) Refresh(ctx context.Context, userID int64) (AuthOutput, error) {
	user, err := u.mustFindActiveUser(ctx, userID)
	if err != nil {
		return AuthOutput{}, err
	}
	return u.buildAuthOutput(*user, u.clock.Now())
}

// 自分のプロフィール取得。
func (u *AuthUsecase) Me(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.mustFindActiveUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	return *user, nil
}

func (u *AuthUsecase) mustFindActiveUser(ctx context.Context, userID int64) (*model.User, error) {
	if userID <= 0 {
		return nil, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if err != nil {
		return nil, NewAppError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if !user.IsActive {
		return nil, NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	return user, nil
}

func (u *AuthUsecase) buildAuthOutput(user model.User, now time.Time) (AuthOutput, error) {
	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, now)
	if err != nil {
		return AuthOutput{}, NewAppError(http.StatusInternalServerError, CodeInternal, "token error")
	}

	return AuthOutput{
		User: user,
		Token: TokenOutput{
			AccessToken: token,
			ExpiresAt:   expiresAt,
		},
	}, nil
}

// メールチェック
func isValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

package service_test

import (
	"context"
	"time"

	"github.com/gof-esteira/oficios-api/internal/auth"
	"github.com/gof-esteira/oficios-api/internal/config"
	"github.com/gof-esteira/oficios-api/internal/service"
	"github.com/gof-esteira/oficios-api/internal/store"
	"github.com/gof-esteira/oficios-api/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var _ = Describe("auth", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		tokens *auth.TokenManager
		srv    *service.AuthService
	)

	insertUser := func(username, password string, active bool) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).To(BeNil())
		_, err = s.User().Create(context.TODO(), model.User{
			Username:     username,
			FullName:     "Usuário de Teste",
			PasswordHash: string(hash),
			Role:         "usuario",
			Active:       active,
		})
		Expect(err).To(BeNil())
	}

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())

		tokens = auth.NewTokenManager("test-signing-key", 8*time.Hour)
		srv = service.NewAuthService(s, tokens)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM users;")
	})

	It("issues a verifiable token on valid credentials", func() {
		insertUser("maria", "segredo123", true)

		session, err := srv.Login(context.TODO(), "maria", "segredo123")
		Expect(err).To(BeNil())
		Expect(session.Token).ToNot(BeEmpty())
		Expect(session.User.Username).To(Equal("maria"))

		identity, err := tokens.Verify(session.Token)
		Expect(err).To(BeNil())
		Expect(identity.Username).To(Equal("maria"))
		Expect(identity.Role).To(Equal("usuario"))
	})

	It("rejects a wrong password", func() {
		insertUser("maria", "segredo123", true)

		_, err := srv.Login(context.TODO(), "maria", "errada")
		Expect(err).To(BeAssignableToTypeOf(&service.ErrUnauthorized{}))
	})

	It("rejects an unknown user", func() {
		_, err := srv.Login(context.TODO(), "ninguem", "tanto-faz")
		Expect(err).To(BeAssignableToTypeOf(&service.ErrUnauthorized{}))
	})

	It("rejects an inactive account", func() {
		insertUser("desativado", "segredo123", false)

		_, err := srv.Login(context.TODO(), "desativado", "segredo123")
		Expect(err).To(BeAssignableToTypeOf(&service.ErrUnauthorized{}))
	})

	It("rejects empty credentials", func() {
		_, err := srv.Login(context.TODO(), "", "")
		Expect(err).To(BeAssignableToTypeOf(&service.ErrUnauthorized{}))
	})

	It("rejects a tampered token", func() {
		other := auth.NewTokenManager("other-key", time.Hour)
		token, err := other.Issue(auth.User{Username: "maria"})
		Expect(err).To(BeNil())

		_, err = tokens.Verify(token)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})
})

package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/serenadigital/serena/app/repository"
	"github.com/serenadigital/serena/internal/pkg/checkout"
	"github.com/serenadigital/serena/internal/pkg/database"
	"github.com/serenadigital/serena/internal/pkg/mail"
	"github.com/serenadigital/serena/internal/pkg/session"
	"github.com/serenadigital/serena/internal/pkg/token"
)

// AuthController backs login, logout and the two token-driven password
// flows.
type AuthController struct {
	users repository.UserRepository
}

var authController *AuthController

// InitializeAuthController wires the auth controller.
func InitializeAuthController(repos *repository.Repositories) {
	authController = &AuthController{users: repos.User}
}

func HandleAuthLogin(c *fiber.Ctx) error {
	ac := authController

	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
			// Same message for unknown email and wrong password.
			"message": "Não foi possível entrar. Verifique seu e-mail e senha.",
		}

		user, err := ac.users.GetByEmail(c.FormValue("email"))
		if err != nil {
			return flash.WithError(c, fm).Redirect("/login")
		}

		if !user.CheckPassword(c.FormValue("password")) {
			return flash.WithError(c, fm).Redirect("/login")
		}

		if !user.IsActive() {
			fm["message"] = "Sua conta está desativada. Fale com o suporte."
			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(AUTH_KEY, true)
		sess.Set(USER_ID, user.ID)
		sess.Set(USER_NAME, user.Name)
		sess.Set(USER_EMAIL, user.Email)
		sess.Set(USER_IS_ADMIN, user.IsAdmin())

		if err := sess.Save(); err != nil {
			return flash.WithError(c, fm).Redirect("/login")
		}

		now := time.Now()
		user.LastLoginAt = &now
		if err := ac.users.Update(user); err != nil {
			log.Printf("auth: last login update failed user_id=%d: %v", user.ID, err)
		}

		return flash.WithSuccess(c, fiber.Map{
			"type":    "success",
			"message": "Bem-vindo de volta!",
		}).Redirect("/membros")
	}

	return c.Render("auth/login", fiber.Map{
		"Title": "Entrar",
		"Flash": flash.Get(c),
	})
}

func HandleAuthLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Até logo!",
	}).Redirect("/login")
}

// HandleSetPassword serves the one-time definir-senha flow. All token
// failures (unknown, used, expired) show the same "link expired" message.
func HandleSetPassword(c *fiber.Ctx) error {
	issuer := token.NewIssuer(token.NewRepository(database.GetDB()))

	expiredFM := fiber.Map{
		"type":    "error",
		"message": "Este link expirou ou já foi usado. Peça um novo na recuperação de senha.",
	}

	if c.Method() == fiber.MethodPost {
		rawToken := c.FormValue("token")
		password := c.FormValue("password")
		confirm := c.FormValue("password_confirm")

		if len(password) < 6 {
			return flash.WithError(c, fiber.Map{
				"type":    "error",
				"message": "A senha precisa ter pelo menos 6 caracteres.",
			}).Redirect("/definir-senha?token=" + rawToken)
		}
		if password != confirm {
			return flash.WithError(c, fiber.Map{
				"type":    "error",
				"message": "As senhas não conferem.",
			}).Redirect("/definir-senha?token=" + rawToken)
		}

		if err := issuer.Consume(rawToken, password); err != nil {
			if errors.Is(err, token.ErrTokenInvalid) {
				return flash.WithError(c, expiredFM).Redirect("/recuperar-senha")
			}
			log.Printf("auth: token consume failed: %v", err)
			return flash.WithError(c, expiredFM).Redirect("/recuperar-senha")
		}

		return flash.WithSuccess(c, fiber.Map{
			"type":    "success",
			"message": "Senha definida! Agora é só entrar.",
		}).Redirect("/login")
	}

	rawToken := c.Query("token")
	if _, err := issuer.Peek(rawToken); err != nil {
		return flash.WithError(c, expiredFM).Redirect("/recuperar-senha")
	}

	return c.Render("auth/definir_senha", fiber.Map{
		"Title": "Definir senha",
		"Token": rawToken,
		"Flash": flash.Get(c),
	})
}

// HandlePasswordRecovery issues a fresh setup token by email. The
// response is identical whether or not the email exists.
func HandlePasswordRecovery(c *fiber.Ctx) error {
	ac := authController

	if c.Method() == fiber.MethodPost {
		neutral := fiber.Map{
			"type":    "success",
			"message": "Se este e-mail estiver cadastrado, enviamos um link de redefinição.",
		}

		if user, err := ac.users.GetByEmail(c.FormValue("email")); err == nil {
			issuer := token.NewIssuer(token.NewRepository(database.GetDB()))
			rawToken, err := issuer.Issue(user.ID)
			if err != nil {
				log.Printf("auth: recovery token issue failed user_id=%d: %v", user.ID, err)
			} else {
				cfg := checkout.ConfigFromEnv()
				subject, body := mail.PasswordRecoveryMessage(user.Name, cfg.SetupURL(rawToken))
				if err := mail.SendMail(user.Email, subject, body); err != nil {
					log.Printf("auth: recovery email failed user_id=%d: %v", user.ID, err)
				}
			}
		}

		return flash.WithSuccess(c, neutral).Redirect("/recuperar-senha")
	}

	return c.Render("auth/recuperar_senha", fiber.Map{
		"Title": "Recuperar senha",
		"Flash": flash.Get(c),
	})
}

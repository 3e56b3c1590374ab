package mail

import "fmt"

// AccessGrantedMessage builds the "access granted" email sent after a
// purchase is reconciled. setupURL is the one-time definir-senha link.
func AccessGrantedMessage(name, productTitle, setupURL string) (subject, body string) {
	greeting := "Olá"
	if name != "" {
		greeting = fmt.Sprintf("Olá, %s", name)
	}
	subject = fmt.Sprintf("Seu acesso ao %s chegou!", productTitle)
	body = fmt.Sprintf(`<p>%s!</p>
<p>Sua compra foi confirmada e seu acesso ao <strong>%s</strong> já está liberado.</p>
<p>Para entrar na área de membros, defina sua senha pelo link abaixo (válido por 30 minutos):</p>
<p><a href="%s">Definir minha senha</a></p>
<p>Se o link expirar, use a recuperação de senha na página de login.</p>
<p>Bons estudos!</p>`, greeting, productTitle, setupURL)
	return subject, body
}

// PasswordRecoveryMessage builds the recovery email with a fresh
// one-time setup link.
func PasswordRecoveryMessage(name, setupURL string) (subject, body string) {
	greeting := "Olá"
	if name != "" {
		greeting = fmt.Sprintf("Olá, %s", name)
	}
	subject = "Recuperação de senha"
	body = fmt.Sprintf(`<p>%s!</p>
<p>Recebemos um pedido para redefinir sua senha. Use o link abaixo (válido por 30 minutos):</p>
<p><a href="%s">Redefinir minha senha</a></p>
<p>Se você não pediu isso, ignore este e-mail.</p>`, greeting, setupURL)
	return subject, body
}

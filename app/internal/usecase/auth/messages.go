package auth

import domuser "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/user"

const GenericMessage = "Error al iniciar sesión."

var messages = map[domuser.Code]string{
	domuser.CodeInvalidCredential: "Correo o contraseña incorrectos.",
	domuser.CodeWrongPassword:     "Correo o contraseña incorrectos.",
	domuser.CodeUserNotFound:      "Correo o contraseña incorrectos.",
	domuser.CodeInvalidEmail:      "Correo electrónico no válido.",
	domuser.CodeTooManyRequests:   "Demasiados intentos. Espera un poco e inténtalo de nuevo.",
	domuser.CodeMissingFields:     "Indica email y contraseña.",
	domuser.CodeUnauthenticated:   "Debes iniciar sesión para subir productos.",
}

// Message maps an authentication failure to the text shown to the admin.
func Message(err error) string {
	if msg, ok := messages[domuser.CodeOf(err)]; ok {
		return msg
	}
	return GenericMessage
}

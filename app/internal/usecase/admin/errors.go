package admin

import "errors"

// ValidationError is a form problem detected before any external call. Its
// message is shown to the admin as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrMissingFields   = &ValidationError{Message: "Completa nombre, precio y categoría."}
	ErrInvalidImage    = &ValidationError{Message: "Selecciona una imagen válida."}
	ErrInvalidCategory = &ValidationError{Message: "Selecciona una categoría válida."}

	ErrBusy       = errors.New("another operation is in progress")
	ErrNotEditing = errors.New("no product is being edited")
)

const (
	MsgCreated = "Producto subido correctamente."
	MsgUpdated = "Producto actualizado correctamente."
	MsgDeleted = "Producto eliminado."
)

package apimodels

type Response struct {
	Status  string      `json:"status"`            //результат обработки fail/success
	Message string      `json:"message,omitempty"` //сообщение ошибки
	Data    interface{} `json:"data,omitempty"`    //данные ответа
}

func NewError(message string) Response {
	return Response{
		Status:  "fail",
		Message: message,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

func NewMessageResponse(message string) Response {
	return Response{
		Status:  "success",
		Message: message,
	}
}

// ValidationError - ошибка проверки входных данных с сообщениями по полям,
// сообщения отображаются рядом с полями формы
type ValidationError struct {
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(fields map[string][]string) *ValidationError {
	return &ValidationError{
		Message: "Please check your input. All fields are required.",
		Fields:  fields,
	}
}

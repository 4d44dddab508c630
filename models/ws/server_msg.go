package wsmodels

type ServerMessage struct {
	ToUserID string `json:"-"`
	Time     string `json:"time"`  // время события
	Type     string `json:"type"`  // тип события
	Title    string `json:"title"` // заголовок
	Msg      string `json:"msg"`   // текст события
}

package response

type Resp struct {
	Code    int         `json:"code"`
	ErrCode string      `json:"error,omitempty"`
	Msg     string      `json:"msg"`
	Data    interface{} `json:"data"`
}

// New never leaves data as null.
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error builds a failure body. An empty msg falls back to the code's default.
func Error(code int, errCode, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	r := New(code, msg, struct{}{})
	r.ErrCode = errCode
	return r
}

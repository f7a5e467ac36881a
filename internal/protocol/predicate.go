package protocol

import "strings"

// SendTextSuccessMarker 发送文字成功时宿主回复中包含的标记。
// 宿主原文就是拼错的 "succsessed"，必须逐字匹配。
const SendTextSuccessMarker = "succsessed"

// SendSucceeded 判断发送文字的回复是否表示成功。
func SendSucceeded(reply string) bool {
	return strings.Contains(reply, SendTextSuccessMarker)
}

// CheckSendText 成功返回 nil，否则返回携带完整回复的 OperationFailedError。
func CheckSendText(reply string) error {
	if SendSucceeded(reply) {
		return nil
	}
	return &OperationFailedError{Op: OpSendText.Name, Reply: reply}
}

package session

import (
	"fmt"

	"github.com/okanita/vira/pkg/lang"
)

// Phrases are the canned operator-facing lines for one feedback language.
// Every error path speaks one of these before the session returns to
// listening, so the operator always knows why a cycle produced no action.
type Phrases struct {
	DidNotCatch           string
	SkippedCycle          string
	ServiceTrouble        string
	BadPlanFormat         string
	StepFailed            string
	Completed             string
	ConfirmFallbackPrompt string
	Continuing            string
	Goodbye               string
	Interrupted           string
}

var defaultPhrases = map[lang.Tag]Phrases{
	lang.TagChinese: {
		DidNotCatch:           "我沒有聽清楚，請您再說一次好嗎？",
		SkippedCycle:          "我暫時無法取得聲音或影像，這一輪先跳過。",
		ServiceTrouble:        "我無法連接到視覺推理中心，請稍後再試。",
		BadPlanFormat:         "我的思考過程出現格式錯誤，請再下一次指令。",
		StepFailed:            "執行第 %d 步（%s）時失敗，已停止這個任務。",
		Completed:             "好的，已完成 %d 個步驟。",
		ConfirmFallbackPrompt: "您確定要關閉系統嗎？",
		Continuing:            "好的，繼續運行系統。",
		Goodbye:               "好的，正在關閉系統。再見！",
		Interrupted:           "檢測到中斷信號，正在關閉系統。",
	},
	lang.TagEnglish: {
		DidNotCatch:           "I didn't catch that, could you say it again?",
		SkippedCycle:          "I couldn't get audio or video just now, skipping this round.",
		ServiceTrouble:        "I can't reach the reasoning backend, please try again shortly.",
		BadPlanFormat:         "My reasoning came back malformed, please repeat the instruction.",
		StepFailed:            "Step %d (%s) failed, I stopped this task.",
		Completed:             "Done, %d steps completed.",
		ConfirmFallbackPrompt: "Are you sure you want to shut the system down?",
		Continuing:            "Okay, staying up and running.",
		Goodbye:               "Okay, shutting down now. Goodbye!",
		Interrupted:           "Interrupt received, shutting the system down.",
	},
}

// PhrasesFor returns the phrase set for a feedback language, falling back to
// Chinese, the deployment default.
func PhrasesFor(tag lang.Tag) Phrases {
	if p, ok := defaultPhrases[tag]; ok {
		return p
	}
	return defaultPhrases[lang.TagChinese]
}

func (p Phrases) StepFailedText(index int, target string) string {
	if target == "" {
		target = "-"
	}
	return fmt.Sprintf(p.StepFailed, index, target)
}

func (p Phrases) CompletedText(steps int) string {
	return fmt.Sprintf(p.Completed, steps)
}

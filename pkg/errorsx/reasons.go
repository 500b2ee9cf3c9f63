package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonDeviceFrame     ReasonCode = "device_frame"
	ReasonDeviceUtterance ReasonCode = "device_utterance"
	ReasonDeviceSpeak     ReasonCode = "device_speak"
	ReasonDeviceTimeout   ReasonCode = "device_timeout"

	ReasonTranscribe ReasonCode = "asr_transcribe"

	ReasonDecide            ReasonCode = "vlm_decide"
	ReasonQuotaExceeded     ReasonCode = "vlm_quota"
	ReasonDecisionMalformed ReasonCode = "decision_malformed"

	ReasonStepExecute ReasonCode = "step_execute"

	ReasonVizClosed ReasonCode = "viz_closed"
	ReasonNotify    ReasonCode = "notify_send"
)

// DeviceReason reports whether the reason belongs to the capture/playback
// device family, which gets the bounded-retry treatment.
func DeviceReason(reason ReasonCode) bool {
	switch reason {
	case ReasonDeviceFrame, ReasonDeviceUtterance, ReasonDeviceSpeak, ReasonDeviceTimeout:
		return true
	}
	return false
}

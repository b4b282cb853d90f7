package util

type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"error": message}
}

// Success starts a response body with "success": true plus the given pairs.
func Success(pairs Envelope) Envelope {
	out := Envelope{"success": true}
	for k, v := range pairs {
		out[k] = v
	}
	return out
}

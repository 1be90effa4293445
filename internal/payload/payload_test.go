package payload

import "testing"

const jobID = "3b9e0f6a-9a43-4f1a-8e2a-bb1f4a1c0d2e"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Payload
	}{
		{
			name: "backup all",
			data: Encode(jobID, ActionBackupAll),
			want: Payload{JobID: jobID, Action: ActionBackupAll},
		},
		{
			name: "cancel",
			data: Encode(jobID, ActionCancel),
			want: Payload{JobID: jobID, Action: ActionCancel},
		},
		{
			name: "page with argument",
			data: EncodeArg(jobID, ActionPage, 3),
			want: Payload{JobID: jobID, Action: ActionPage, Arg: 3},
		},
		{
			name: "database pick",
			data: EncodeArg(jobID, ActionPick, 12),
			want: Payload{JobID: jobID, Action: ActionPick, Arg: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(tt.data)
			if !ok {
				t.Fatalf("Decode(%q) not ok", tt.data)
			}
			if got != tt.want {
				t.Errorf("Decode(%q) = %+v, want %+v", tt.data, got, tt.want)
			}
		})
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"wrong prefix", "xyz_" + jobID + "_all"},
		{"prefix only", "mdb_"},
		{"missing action", "mdb_" + jobID},
		{"empty job id", "mdb__all"},
		{"unknown action", "mdb_" + jobID + "_explode"},
		{"page without argument", "mdb_" + jobID + "_page"},
		{"page with non-numeric argument", "mdb_" + jobID + "_page_abc"},
		{"cancel with stray argument", "mdb_" + jobID + "_cancel_1"},
		{"trailing underscore", "mdb_" + jobID + "_all_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p, ok := Decode(tt.data); ok {
				t.Errorf("Decode(%q) = %+v, want rejection", tt.data, p)
			}
		})
	}
}

func TestEncodeFitsCallbackDataLimit(t *testing.T) {
	// Telegram caps callback data at 64 bytes.
	data := EncodeArg(jobID, ActionPick, 9999)
	if len(data) > 64 {
		t.Errorf("payload %q is %d bytes, exceeds 64", data, len(data))
	}
}

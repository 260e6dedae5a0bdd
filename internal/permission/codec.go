package permission

// MatrixEntry is one row of the editor's checkbox matrix: a module
// access flag plus four independent CRUD flags.
type MatrixEntry struct {
	Access bool `json:"access"`
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// AccessMatrix is the UI-facing model of a role's permissions, keyed by
// module. Missing modules are all-false.
type AccessMatrix map[Module]MatrixEntry

// Decode maps a flat code list to the checkbox matrix. Malformed and
// unknown codes are skipped silently.
func Decode(codes []string) AccessMatrix {
	matrix := make(AccessMatrix, len(Modules))

	present := make(map[string]bool, len(codes))
	for _, code := range codes {
		if IsWellFormed(code) {
			present[code] = true
		}
	}

	for _, mod := range Modules {
		entry := MatrixEntry{}

		if present[AccessCode(mod)] {
			entry.Access = true
		}

		if present[Code(mod, ActionCreate)] {
			entry.Create = true
		}
		if present[Code(mod, ActionRead)] {
			entry.Read = true
		}
		if present[Code(mod, ActionUpdate)] {
			entry.Update = true
		}
		if present[Code(mod, ActionDelete)] {
			entry.Delete = true
		}

		matrix[mod] = entry
	}

	return matrix
}

// DecodeForRole decodes codes and, for admin-class role names, forces
// the admin module access flag on so that re-encoding cannot strip
// admin:manage from an admin role through the editor.
func DecodeForRole(roleName string, codes []string) AccessMatrix {
	matrix := Decode(codes)
	if IsAdminClassRole(roleName) {
		entry := matrix[ModuleAdmin]
		entry.Access = true
		matrix[ModuleAdmin] = entry
	}
	return matrix
}

// Encode maps the checkbox matrix back to a deduplicated code list.
// Order is stable: module enumeration order, access code first, then
// CRUD actions in enumeration order.
func Encode(matrix AccessMatrix) []string {
	var codes []string
	seen := make(map[string]bool)

	emit := func(code string) {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}

	for _, mod := range Modules {
		entry, ok := matrix[mod]
		if !ok {
			continue
		}

		if entry.Access {
			emit(AccessCode(mod))
		}
		for _, action := range crudActions {
			switch action {
			case ActionCreate:
				if entry.Create {
					emit(Code(mod, action))
				}
			case ActionRead:
				if entry.Read {
					emit(Code(mod, action))
				}
			case ActionUpdate:
				if entry.Update {
					emit(Code(mod, action))
				}
			case ActionDelete:
				if entry.Delete {
					emit(Code(mod, action))
				}
			}
		}
	}

	return codes
}

// EncodeForRole encodes the matrix and guarantees admin:manage for
// admin-class role names even when the editor toggles dropped it.
func EncodeForRole(roleName string, matrix AccessMatrix) []string {
	codes := Encode(matrix)
	if IsAdminClassRole(roleName) {
		for _, code := range codes {
			if code == AdminManageCode {
				return codes
			}
		}
		codes = append(codes, AdminManageCode)
	}
	return codes
}

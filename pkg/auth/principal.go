package auth

// PrincipalKind различает два непересекающихся пространства учетных данных,
// обслуживаемых одной поверхностью API, плюс анонимный доступ.
type PrincipalKind string

const (
	PrincipalAnonymous   PrincipalKind = "anonymous"
	PrincipalAdmin       PrincipalKind = "admin"
	PrincipalParticipant PrincipalKind = "participant"
)

// Principal — размеченное объединение {Admin, Participant, Anonymous}.
// Разрешается ровно один раз на запрос в middleware и передается явно
// во все нижележащие вызовы; глобального/ambient хранения нет.
type Principal struct {
	Kind PrincipalKind

	// AdminID заполнен только для Kind == PrincipalAdmin
	AdminID string
	// ParticipantID заполнен только для Kind == PrincipalParticipant
	ParticipantID string

	// TenantID — тенант принципала. Пуст для супер-админа и для анонима.
	TenantID string
	// Role — роль админского токена (tenant_admin | super_admin), иначе пусто.
	Role string
}

// Anonymous возвращает анонимный принципал
func Anonymous() Principal {
	return Principal{Kind: PrincipalAnonymous}
}

// IsAdmin проверяет, что запрос исходит от администратора
func (p Principal) IsAdmin() bool {
	return p.Kind == PrincipalAdmin
}

// IsParticipant проверяет, что запрос исходит от участника
func (p Principal) IsParticipant() bool {
	return p.Kind == PrincipalParticipant
}

// IsSuperAdmin проверяет, что админский токен не ограничен одним тенантом
func (p Principal) IsSuperAdmin() bool {
	return p.Kind == PrincipalAdmin && p.Role == "super_admin"
}

// TenantScope возвращает tenant id для фильтрации выборок.
// Пустая строка (супер-админ) означает выборку без фильтра.
func (p Principal) TenantScope() string {
	if p.IsSuperAdmin() {
		return ""
	}
	return p.TenantID
}

package entity

import "strings"

// ProfileGroup representa uma unidade de trabalho para os relatórios.
// Pode ser um único perfil ou um grupo de perfis da mesma conta AWS que
// devem ser agregados juntos quando a flag --combine é usada.
type ProfileGroup struct {
	// Identifier é o nome exibido na interface: o nome do perfil para um
	// grupo de um elemento, ou a lista "dev, staging, prod" para um grupo
	// combinado.
	Identifier string

	// AccountID identifica a conta AWS compartilhada pelos perfis do grupo.
	AccountID string

	// Profiles lista os perfis reais que compõem o grupo.
	Profiles []string

	// IsCombined indica que múltiplos perfis da mesma conta serão agregados
	// em um único relatório.
	IsCombined bool
}

// NewProfileGroup monta um grupo a partir dos perfis que resolveram para a
// mesma conta.
func NewProfileGroup(accountID string, profiles []string) ProfileGroup {
	return ProfileGroup{
		Identifier: strings.Join(profiles, ", "),
		AccountID:  accountID,
		Profiles:   profiles,
		IsCombined: len(profiles) > 1,
	}
}

package mirror

import "github.com/vilgotf/voice-pruner/internal/domain"

// Effective calcula el set efectivo de un miembro en un canal, siguiendo el
// orden de resolución documentado por Discord:
//
//  1. base = unión de los permisos de todos los roles del miembro
//     (everyone incluido); owner o Administrator => todo
//  2. overwrites de la categoría padre (si hay)
//  3. overwrites del canal
//
// En cada nivel: overwrite de everyone, luego los overwrites de rol
// agregados (deny de cualquier rol pisa allow de otro rol en el mismo bit)
// y al final el overwrite de miembro, que pisa todo lo anterior.
func (m *Mirror) Effective(guildID, userID, channelID string) (domain.Capabilities, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.guilds[guildID]
	if !ok {
		return 0, false
	}
	ch, ok := g.channels[channelID]
	if !ok {
		return 0, false
	}
	me, ok := g.members[userID]
	if !ok {
		return 0, false
	}

	if userID == g.ownerID {
		return domain.AllCapabilities, true
	}

	perms := basePermissions(g, guildID, me)
	if perms.Has(domain.Administrator) {
		return domain.AllCapabilities, true
	}

	if parent, ok := g.channels[ch.ParentID]; ok {
		perms = applyOverwrites(perms, guildID, me, parent.Overwrites)
	}
	return applyOverwrites(perms, guildID, me, ch.Overwrites), true
}

// basePermissions: everyone (rol con ID == guildID) ∪ roles del miembro.
func basePermissions(g *guildState, guildID string, me domain.Member) domain.Capabilities {
	var perms domain.Capabilities
	if everyone, ok := g.roles[guildID]; ok {
		perms = everyone.Permissions
	}
	for _, roleID := range me.Roles {
		if ro, ok := g.roles[roleID]; ok {
			perms |= ro.Permissions
		}
	}
	return perms
}

func applyOverwrites(perms domain.Capabilities, guildID string, me domain.Member, overwrites []domain.Overwrite) domain.Capabilities {
	// everyone primero: un rol explícito puede revertirlo
	for _, ow := range overwrites {
		if ow.Kind == domain.OverwriteRole && ow.ID == guildID {
			perms &^= ow.Deny
			perms |= ow.Allow
		}
	}

	// roles del miembro, agregados: deny gana sobre allow en el mismo bit,
	// un allow de otro rol no puede revertir un deny explícito
	var allow, deny domain.Capabilities
	for _, ow := range overwrites {
		if ow.Kind != domain.OverwriteRole || ow.ID == guildID {
			continue
		}
		for _, roleID := range me.Roles {
			if ow.ID == roleID {
				allow |= ow.Allow
				deny |= ow.Deny
			}
		}
	}
	perms |= allow
	perms &^= deny

	// overwrite de miembro: pisa todo lo de arriba
	for _, ow := range overwrites {
		if ow.Kind == domain.OverwriteMember && ow.ID == me.UserID {
			perms &^= ow.Deny
			perms |= ow.Allow
		}
	}
	return perms
}
